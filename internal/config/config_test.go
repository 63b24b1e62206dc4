package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
siteTitle: Jane Doe
outputDir: dist
language: en-GB
data:
  source: https://example.com/
  photos: /gallery/photos.json
theme:
  store: sqlite
  path: prefs.db
  ambient: dark
log:
  level: debug
  pretty: false
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	assert.Equal(t, "Jane Doe", cfg.SiteTitle)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "en-GB", cfg.Language)
	assert.Equal(t, "https://example.com/", cfg.Data.Source)
	assert.Equal(t, "/gallery/photos.json", cfg.Data.Photos)
	assert.Equal(t, "/data/projects.json", cfg.Data.Projects)
	assert.Equal(t, "sqlite", cfg.Theme.Store)
	assert.Equal(t, "prefs.db", cfg.Theme.Path)
	assert.Equal(t, "dark", cfg.Theme.Ambient)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "siteTitle: Minimal\n")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "layouts", cfg.LayoutsDir)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, ".", cfg.Data.Source)
	assert.Equal(t, "/data/media.json", cfg.Data.Media)
	assert.Equal(t, "file", cfg.Theme.Store)
	assert.Equal(t, "auto", cfg.Theme.Ambient)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "outputDir: public\n")
	t.Setenv("PORTFOLIO_OUTPUTDIR", "site")
	t.Setenv("PORTFOLIO_THEME_AMBIENT", "light")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.OutputDir)
	assert.Equal(t, "light", cfg.Theme.Ambient)
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "outputDir: public\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORTFOLIO_SITETITLE=From Env\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PORTFOLIO_SITETITLE") })

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.SiteTitle)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "theme:\n  store: redis\n")

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported theme store")
}

func TestValidate(t *testing.T) {
	valid := Config{
		OutputDir: "public",
		Data:      DataConfig{Source: "."},
		Theme:     ThemeConfig{Store: "file", Path: "prefs.yaml", Ambient: "auto"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"no output", func(c *Config) { c.OutputDir = "" }, "outputDir is required"},
		{"output is cwd", func(c *Config) { c.OutputDir = "./" }, "would wipe"},
		{"no source", func(c *Config) { c.Data.Source = "" }, "data.source is required"},
		{"sqlite without path", func(c *Config) { c.Theme.Store = "sqlite"; c.Theme.Path = "" }, "theme.path is required"},
		{"bad ambient", func(c *Config) { c.Theme.Ambient = "sepia" }, "unsupported theme ambient mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	memory := valid
	memory.Theme = ThemeConfig{Store: "memory", Ambient: "dark"}
	assert.NoError(t, memory.Validate())
}

func TestLoad_TrimsBaseURLSlash(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "baseURL: https://jane.dev/\n")
	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://jane.dev", cfg.BaseURL)

	path = writeConfig(t, t.TempDir(), "baseURL: /\n")
	cfg, _, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.BaseURL)
}
