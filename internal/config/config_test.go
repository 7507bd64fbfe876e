package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libreveal.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RetireJSFeedURL, cfg.Feed.URL)
	assert.Equal(t, "libreveal.js", cfg.Output.Script)
	assert.Equal(t, "libreveal.min.js", cfg.Output.Minified)
	assert.Equal(t, ".libreveal/state.db", cfg.Store.Path)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
[feed]
url = "file:///srv/feeds/jsrepository.json"
local = "ext/local.risor"

[output]
script = "dist/libreveal.js"

[watch]
debounce = "2s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/feeds/jsrepository.json", cfg.Feed.URL)
	assert.Equal(t, "ext/local.risor", cfg.Feed.Local)
	assert.Equal(t, "dist/libreveal.js", cfg.Output.Script)
	assert.Equal(t, "libreveal.min.js", cfg.Output.Minified)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[output]\nscript = \"from-file.js\"\n")
	t.Setenv("LIBREVEAL_OUTPUT_SCRIPT", "from-env.js")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.js", cfg.Output.Script)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Feed:   FeedConfig{URL: "x"},
		Output: OutputConfig{Script: "a.js"},
		Store:  StoreConfig{Path: "s.db"},
	}
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Feed.URL = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Watch.Debounce = -time.Second
	assert.Error(t, bad.Validate())
}
