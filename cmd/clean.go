package cmd

import (
	"github.com/actionsmith/actionsmith/internal/cache"
	"github.com/actionsmith/actionsmith/internal/log"
	"github.com/actionsmith/actionsmith/internal/workflow"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear the change-detection cache",
	Long: `Removes the cached generation records, so the next generate run rebuilds
every workflow file regardless of whether its inputs changed.`,
	RunE: cleanExec,
}

func cleanInit() {
	rootCmd.AddCommand(cleanCmd)
}

func cleanExec(cmd *cobra.Command, args []string) error {
	if err := cache.Clear(workflow.CacheNamespace); err != nil {
		return err
	}

	log.From(cmd.Context()).Success("change-detection cache cleared")
	return nil
}
