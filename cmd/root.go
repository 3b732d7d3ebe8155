package cmd

import (
	"context"
	"os"

	"github.com/actionsmith/actionsmith/internal/config"
	"github.com/actionsmith/actionsmith/internal/env"
	"github.com/actionsmith/actionsmith/internal/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "actionsmith",
	Short: "Generate and maintain GitHub Actions pipelines from a declarative config",
	Long: `actionsmith generates CI/CD workflow files under .github/workflows/ from a
declarative pipeline config and keeps them up to date without clobbering your
hand-made edits: comments, custom jobs and extra branches survive regeneration,
and rerunning on an already-converged file changes nothing.`,
}

var l = log.New().WithLevel(log.LevelInfo)

func init() {
	// We want our commands to be sorted in defined order, not alphabetically
	cobra.EnableCommandSorting = false
	if err := config.Load(); err != nil {
		l.Error("", zap.Error(err))
		os.Exit(1)
	}
}

func Init(version string) {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("logLevel", config.GetLogLevel(), "the log level (available options: [info, warn, error])")
	if err := config.BindLogLevelFlag(rootCmd.PersistentFlags().Lookup("logLevel")); err != nil {
		l.Error("", zap.Error(err))
		os.Exit(1)
	}

	generateInit()
	bumpInit()
	cleanInit()
}

func Execute(version string) {
	Init(version)

	logger := log.New().WithLevel(resolveLogLevel(rootCmd.PersistentFlags()))

	ctx := log.With(context.Background(), logger)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("", zap.Error(err))
		os.Exit(1)
	}
}

// resolveLogLevel picks the effective log level: an explicit flag wins, then
// the environment, then GitHub's debug re-run mode which forces full output,
// then the configured default.
func resolveLogLevel(flags *pflag.FlagSet) log.Level {
	if flags.Changed("logLevel") {
		if level, err := flags.GetString("logLevel"); err == nil {
			return log.Level(level)
		}
	}

	if level := env.LogLevel(); level != "" {
		return log.Level(level)
	}

	if env.IsGithubDebugMode() {
		return log.LevelInfo
	}

	return log.Level(config.GetLogLevel())
}
