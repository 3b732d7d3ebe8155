package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	cfgDir := filepath.Join(dir, ConfigDir)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	path := filepath.Join(cfgDir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FindsConfigInParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "name: svc\nmode: pr\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, path, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, filepath.Join(root, ConfigDir, ConfigFile), path)
}

func TestLoad_MissingConfig(t *testing.T) {
	_, _, err := Load(t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: svc\nbogus: true\n")

	_, _, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_RejectsInvalidMode(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "name: svc\nmode: yolo\n")

	_, _, err := Load(dir)
	require.Error(t, err)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{Name: "svc"}
	assert.Equal(t, ModePR, cfg.EffectiveMode())
	assert.Equal(t, []string{"main"}, cfg.EffectiveBranches())
	assert.Empty(t, cfg.PublishingTargets())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "name: svc\n")

	cfg, _, err := Load(dir)
	require.NoError(t, err)

	cfg.Version = "1.2.3"
	require.NoError(t, Save(path, cfg))

	reloaded, _, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", reloaded.Version)
}
