package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refig.yml"), []byte(`figuresDir: out/figures
backend: svg
dpi: 300
python: python3
autoFormat: true
stylePrelude: true
graphDB: .refig/graph
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "out/figures", cfg.FiguresDir)
	assert.Equal(t, "svg", cfg.Backend)
	assert.Equal(t, 300, cfg.DPI)
	assert.Equal(t, "python3", cfg.Python)
	assert.True(t, cfg.AutoFormat)
	assert.True(t, cfg.StylePrelude)
	assert.Equal(t, ".refig/graph", cfg.GraphDB)
	assert.False(t, cfg.Show)
}

func TestLoad_YamlExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refig.yaml"), []byte("backend: agg\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "agg", cfg.Backend)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err, "a missing config file is not an error")
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refig.yml"), []byte("backend: [unclosed\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
