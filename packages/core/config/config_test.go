package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".specbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: junit
outputFile: report.xml
history: runs.db
verbose: true
noColor: true
strict: true
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "junit", cfg.GetOutput())
	assert.Equal(t, "report.xml", cfg.OutputFile)
	assert.Equal(t, "runs.db", cfg.History)
	assert.True(t, cfg.GetVerbose())
	assert.True(t, cfg.GetNoColor())
	assert.True(t, cfg.GetStrict())
	assert.False(t, cfg.GetBail())
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "console", cfg.GetOutput())
	assert.False(t, cfg.GetVerbose())
	assert.False(t, cfg.GetNoColor())
	assert.False(t, cfg.GetStrict())
	assert.False(t, cfg.GetBail())
}

func TestLoadConfigMissingFileIsZeroConfig(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.GetOutput())
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigExplicitMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
