/*
Package config manages TOML config for the wordcheck tools.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
)

// Config holds the entire config structure
type Config struct {
	Dict   DictConfig   `toml:"dict"`
	Check  CheckConfig  `toml:"check"`
	Output OutputConfig `toml:"output"`
	CLI    CliConfig    `toml:"cli"`
}

// DictConfig locates the word lists.
type DictConfig struct {
	StockPath string `toml:"stock_path"`
	UserPath  string `toml:"user_path"`
}

// CheckConfig tunes suggestion ranking.
type CheckConfig struct {
	SuggestionLimit int `toml:"suggestion_limit"`
	CacheSize       int `toml:"cache_size"`
}

// OutputConfig controls staging and export of checked documents.
type OutputConfig struct {
	StagingDir string `toml:"staging_dir"`
	CopySuffix string `toml:"copy_suffix"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowSuggestions int `toml:"show_suggestions"`
}

// GetConfigDir returns ~/.config/wordcheck, falling back to the current
// working directory when no home directory can be found.
func GetConfigDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return os.Getwd()
	}
	return filepath.Join(home, ".config", "wordcheck"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: ~/.config/wordcheck/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dict: DictConfig{
			StockPath: "data/words.txt",
			UserPath:  "~/.config/wordcheck/user_words.txt",
		},
		Check: CheckConfig{
			SuggestionLimit: 10,
			CacheSize:       256,
		},
		Output: OutputConfig{
			StagingDir: "",
			CopySuffix: "+copy",
		},
		CLI: CliConfig{
			ShowSuggestions: 5,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if checkSection, ok := utils.ExtractSection(tempConfig, "check"); ok {
		extractCheckConfig(checkSection, &config.Check)
	}
	if outputSection, ok := utils.ExtractSection(tempConfig, "output"); ok {
		extractOutputConfig(outputSection, &config.Output)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "stock_path"); ok {
		dict.StockPath = val
	}
	if val, ok := utils.ExtractString(data, "user_path"); ok {
		dict.UserPath = val
	}
}

func extractCheckConfig(data map[string]any, check *CheckConfig) {
	if val, ok := utils.ExtractInt64(data, "suggestion_limit"); ok {
		check.SuggestionLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		check.CacheSize = val
	}
}

func extractOutputConfig(data map[string]any, output *OutputConfig) {
	if val, ok := utils.ExtractString(data, "staging_dir"); ok {
		output.StagingDir = val
	}
	if val, ok := utils.ExtractString(data, "copy_suffix"); ok {
		output.CopySuffix = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "show_suggestions"); ok {
		cli.ShowSuggestions = val
	}
}

// sanitize puts back defaults for values that cannot work.
func (c *Config) sanitize() {
	def := DefaultConfig()
	if c.Check.SuggestionLimit <= 0 {
		log.Warnf("suggestion_limit must be positive, using %d", def.Check.SuggestionLimit)
		c.Check.SuggestionLimit = def.Check.SuggestionLimit
	}
	if c.Check.CacheSize < 0 {
		c.Check.CacheSize = 0
	}
	if c.Output.CopySuffix == "" {
		c.Output.CopySuffix = def.Output.CopySuffix
	}
	if c.CLI.ShowSuggestions <= 0 {
		c.CLI.ShowSuggestions = def.CLI.ShowSuggestions
	}
}

// ExpandPath resolves a leading ~ in a configured path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		log.Warnf("Could not expand %s: %v", path, err)
		return path
	}
	return expanded
}

// StockPath is the stock word list location with ~ expanded.
func (c *Config) StockPath() string {
	return ExpandPath(c.Dict.StockPath)
}

// UserPath is the user word list location with ~ expanded.
func (c *Config) UserPath() string {
	return ExpandPath(c.Dict.UserPath)
}

// StagingDir is the staging directory with ~ expanded, empty for the OS temp dir.
func (c *Config) StagingDir() string {
	return ExpandPath(c.Output.StagingDir)
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the check values and saves to file
func (c *Config) Update(configPath string, suggestionLimit, cacheSize *int) error {
	if suggestionLimit != nil {
		c.Check.SuggestionLimit = *suggestionLimit
	}
	if cacheSize != nil {
		c.Check.CacheSize = *cacheSize
	}
	return SaveConfig(c, configPath)
}
