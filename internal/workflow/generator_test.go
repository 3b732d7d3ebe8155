package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/actionsmith/actionsmith/internal/merging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(t *testing.T) (*Generator, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	return NewGenerator(root), root
}

func testConfig() *Config {
	return &Config{
		Name:     "svc",
		Branches: []string{"main"},
	}
}

func TestGenerator_FreshRunSynthesizesFromBase(t *testing.T) {
	g, root := testGenerator(t)

	plans, err := Plans(testConfig())
	require.NoError(t, err)

	results, err := g.Run(context.Background(), plans, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, merging.MergeStatusOverwritten, results[0].Status)
	assert.False(t, results[0].Skipped)

	content, err := os.ReadFile(filepath.Join(root, results[0].Path))
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: Generate")
	assert.Contains(t, string(content), "workflow_dispatch")
	assert.Contains(t, string(content), "- main")
}

func TestGenerator_PreservesUserEditsAndReportsMerged(t *testing.T) {
	g, root := testGenerator(t)

	cfg := testConfig()
	plans, err := Plans(cfg)
	require.NoError(t, err)

	path := filepath.Join(root, plans[0].Path)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	userFile := "name: ci\n# my deploy job\non:\n  push:\n    branches:\n      - develop\n"
	require.NoError(t, os.WriteFile(path, []byte(userFile), 0o644))

	results, err := g.Run(context.Background(), plans, Options{})
	require.NoError(t, err)

	assert.Equal(t, merging.MergeStatusMerged, results[0].Status)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# my deploy job")
	assert.Contains(t, string(content), "- develop")
	assert.Contains(t, string(content), "- main")
}

func TestGenerator_SecondRunIsCacheHit(t *testing.T) {
	g, _ := testGenerator(t)

	cfg := testConfig()
	plans, err := Plans(cfg)
	require.NoError(t, err)

	_, err = g.Run(context.Background(), plans, Options{})
	require.NoError(t, err)

	plans2, err := Plans(cfg)
	require.NoError(t, err)
	results, err := g.Run(context.Background(), plans2, Options{})
	require.NoError(t, err)

	assert.True(t, results[0].Skipped)
}

func TestGenerator_ForceBypassesCache(t *testing.T) {
	g, _ := testGenerator(t)

	cfg := testConfig()
	plans, err := Plans(cfg)
	require.NoError(t, err)

	_, err = g.Run(context.Background(), plans, Options{})
	require.NoError(t, err)

	results, err := g.Run(context.Background(), plans, Options{Force: true})
	require.NoError(t, err)
	assert.False(t, results[0].Skipped)
}

func TestPlanFingerprint_SeparatesTemplateAndExisting(t *testing.T) {
	// Shifting bytes between the template and the existing document must
	// change the fingerprint.
	a, err := planFingerprint(&Plan{BaseTemplate: []byte("ab")}, []byte("c"))
	require.NoError(t, err)
	b, err := planFingerprint(&Plan{BaseTemplate: []byte("a")}, []byte("bc"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerator_RunTwiceConvergesByteIdentical(t *testing.T) {
	g, root := testGenerator(t)

	cfg := testConfig()
	plans, err := Plans(cfg)
	require.NoError(t, err)

	_, err = g.Run(context.Background(), plans, Options{})
	require.NoError(t, err)

	path := filepath.Join(root, plans[0].Path)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	plans2, err := Plans(cfg)
	require.NoError(t, err)
	_, err = g.Run(context.Background(), plans2, Options{Force: true})
	require.NoError(t, err)

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
