package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.Check.SuggestionLimit)
	assert.Equal(t, 256, cfg.Check.CacheSize)
	assert.Equal(t, "+copy", cfg.Output.CopySuffix)
	assert.Equal(t, 5, cfg.CLI.ShowSuggestions)
	assert.Empty(t, cfg.StagingDir())
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[dict]
stock_path = "/usr/share/dict/words"

[check]
suggestion_limit = 7

[output]
copy_suffix = "_copy"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/dict/words", cfg.StockPath())
	assert.Equal(t, 7, cfg.Check.SuggestionLimit)
	assert.Equal(t, 256, cfg.Check.CacheSize)
	assert.Equal(t, "_copy", cfg.Output.CopySuffix)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// suggestion_limit has the wrong type, so strict decoding fails
	content := `
[check]
suggestion_limit = "many"
cache_size = 12

[cli]
show_suggestions = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Check.SuggestionLimit)
	assert.Equal(t, 12, cfg.Check.CacheSize)
	assert.Equal(t, 3, cfg.CLI.ShowSuggestions)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[check\nsuggestion_limit = = 3"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSanitize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[check]
suggestion_limit = 0
cache_size = -4

[output]
copy_suffix = ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Check.SuggestionLimit)
	assert.Equal(t, 0, cfg.Check.CacheSize)
	assert.Equal(t, "+copy", cfg.Output.CopySuffix)
}

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "words.txt"), ExpandPath("~/words.txt"))
	assert.Equal(t, "/abs/words.txt", ExpandPath("/abs/words.txt"))
	assert.Equal(t, "", ExpandPath(""))
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cli]\nshow_suggestions = 8\n"), 0644))

	cfg, active, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, active)
	assert.Equal(t, 8, cfg.CLI.ShowSuggestions)
}
