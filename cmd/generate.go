package cmd

import (
	"os"
	"path/filepath"

	"github.com/actionsmith/actionsmith/internal/config"
	"github.com/actionsmith/actionsmith/internal/env"
	"github.com/actionsmith/actionsmith/internal/log"
	"github.com/actionsmith/actionsmith/internal/workflow"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate or update the pipeline workflow files",
	Long: `Generates the GitHub Actions workflow files described by the pipeline config,
merging the desired structure into any existing files. User edits are
preserved; files whose inputs are unchanged since the last run are skipped.`,
	RunE: generateExec,
}

func generateInit() {
	generateCmd.Flags().StringP("dir", "d", ".", "directory to search for the pipeline config (searched upwards)")
	generateCmd.Flags().BoolP("force", "f", false, "regenerate even when nothing changed")
	rootCmd.AddCommand(generateCmd)
}

func generateExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.From(ctx)

	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	force = force || env.ForceGeneration()

	cfg, cfgPath, err := workflow.Load(dir)
	if err != nil {
		return err
	}

	// The project root is the directory holding .actionsmith/.
	root := filepath.Dir(filepath.Dir(cfgPath))

	plans, err := workflow.Plans(cfg)
	if err != nil {
		return err
	}

	results, err := workflow.NewGenerator(root).Run(ctx, plans, workflow.Options{Force: force})
	if err != nil {
		return err
	}

	annotate := env.IsGithubAction() && config.GithubAnnotationsEnabled()
	actions := githubactions.New(githubactions.WithWriter(os.Stdout))

	for _, result := range results {
		fileLogger := logger.WithAssociatedFile(result.Path)

		for _, warning := range result.Warnings {
			fileLogger.Warn(warning.Reason, zap.String("path", warning.Path))
			if annotate {
				actions.Warningf("%s: %s", warning.Path, warning.Reason)
			}
		}

		switch {
		case result.Skipped:
			fileLogger.Infof("%s unchanged", result.Path)
		default:
			fileLogger.Successf("%s written (%s)", result.Path, result.Status)
		}
	}

	return nil
}
