package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	vCfg   = viper.New()
	cfgDir string
)

// Load reads the user-level tool settings from ~/.actionsmith/config.yaml.
// A missing file is not an error; every getter has a default.
func Load() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	cfgDir = filepath.Join(home, ".actionsmith")

	vCfg.SetConfigName("config")
	vCfg.SetConfigType("yaml")
	vCfg.AddConfigPath(cfgDir)

	vCfg.SetDefault("log_level", "info")
	vCfg.SetDefault("github_annotations", true)

	if err := vCfg.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}

// BindLogLevelFlag lets a command-line flag override the configured log level.
func BindLogLevelFlag(f *pflag.Flag) error {
	return vCfg.BindPFlag("log_level", f)
}

func GetLogLevel() string {
	return vCfg.GetString("log_level")
}

// GithubAnnotationsEnabled controls whether merge warnings are also emitted as
// workflow-command annotations when running inside GitHub Actions.
func GithubAnnotationsEnabled() bool {
	return vCfg.GetBool("github_annotations")
}
