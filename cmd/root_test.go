package cmd

import (
	"testing"

	"github.com/actionsmith/actionsmith/internal/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogLevel(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("logLevel", "info", "")

	t.Setenv("ACTIONSMITH_LOG_LEVEL", "")

	t.Setenv("RUNNER_DEBUG", "true")
	assert.Equal(t, log.LevelInfo, resolveLogLevel(flags))
	t.Setenv("RUNNER_DEBUG", "")

	t.Setenv("ACTIONSMITH_LOG_LEVEL", "warn")
	assert.Equal(t, log.LevelWarn, resolveLogLevel(flags))

	// An explicit flag beats the environment.
	require.NoError(t, flags.Set("logLevel", "error"))
	assert.Equal(t, log.LevelErr, resolveLogLevel(flags))
}
