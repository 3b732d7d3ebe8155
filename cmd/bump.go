package cmd

import (
	"fmt"
	"slices"

	"github.com/actionsmith/actionsmith/internal/git"
	"github.com/actionsmith/actionsmith/internal/versioning"
	"github.com/actionsmith/actionsmith/internal/workflow"
	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

var bumpCmd = &cobra.Command{
	Use:   "bump [patch|minor|major]",
	Short: "Bump the pipeline version, or propose one from commit history",
	Long: `Bumps the version recorded in the pipeline config. Without arguments the bump
kind is proposed from the commits since the last semver tag (conventional
commit subjects: feat bumps minor, fix bumps patch, breaking changes bump
major).

Examples:

- actionsmith bump - Proposes and applies a bump from commit history
- actionsmith bump patch - Bumps the patch version
- actionsmith bump -v 1.2.3 - Sets the version to 1.2.3
`,
	Args: cobra.RangeArgs(0, 1),
	RunE: bumpExec,
}

func bumpInit() {
	bumpCmd.Flags().StringP("version", "v", "", "the exact version to set")
	bumpCmd.Flags().StringP("dir", "d", ".", "directory to search for the pipeline config (searched upwards)")
	rootCmd.AddCommand(bumpCmd)
}

func bumpExec(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	specificVersion, err := cmd.Flags().GetString("version")
	if err != nil {
		return err
	}

	bumpKind := ""
	if specificVersion == "" && len(args) > 0 {
		bumpKind = args[0]
	}

	if bumpKind != "" && !slices.Contains([]string{"patch", "minor", "major"}, bumpKind) {
		return fmt.Errorf("bump type must be one of patch, minor, or major")
	}
	if specificVersion != "" {
		if _, err := version.NewVersion(specificVersion); err != nil {
			return fmt.Errorf("specified version %s is not a valid semantic version: %w", specificVersion, err)
		}
	}

	cfg, cfgPath, err := workflow.Load(dir)
	if err != nil {
		return err
	}

	next, summary, err := nextVersion(cfg, dir, bumpKind, specificVersion)
	if err != nil {
		return err
	}

	cfg.Version = next
	if err := workflow.Save(cfgPath, cfg); err != nil {
		return err
	}

	fmt.Printf("Bumped %s's version to %s%s\n", cfg.Name, next, summary)

	return nil
}

func nextVersion(cfg *workflow.Config, dir, bumpKind, specificVersion string) (string, string, error) {
	if specificVersion != "" {
		return specificVersion, "", nil
	}

	if bumpKind != "" {
		current := cfg.Version
		if current == "" {
			current = "0.0.0"
		}

		v, err := version.NewSemver(current)
		if err != nil {
			return "", "", fmt.Errorf("failed to parse version %s: %w", current, err)
		}

		next, err := versioning.Bump(v, versioning.BumpKind(bumpKind))
		if err != nil {
			return "", "", err
		}

		return next.String(), fmt.Sprintf(" (%s)", bumpKind), nil
	}

	repo, err := git.NewLocalRepository(dir)
	if err != nil {
		return "", "", err
	}

	proposal, err := versioning.Propose(repo)
	if err != nil {
		return "", "", err
	}
	if proposal.Kind == versioning.BumpNone {
		return proposal.Current.String(), " (no changes since last tag)", nil
	}

	return proposal.Next.String(), fmt.Sprintf(" (%s, %d commits)", proposal.Kind, proposal.Commits), nil
}
