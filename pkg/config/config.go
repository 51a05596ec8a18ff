/*
Package config manages TOML config for wordfix services.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Match  MatchConfig  `toml:"match"`
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// MatchConfig controls the matching engine.
type MatchConfig struct {
	MaxDepth  int    `toml:"max_depth"`
	Strategy  string `toml:"strategy"`
	CacheSize int    `toml:"cache_size"`
	Workers   int    `toml:"workers"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MaxQuery     int  `toml:"max_query"`
	EnableFilter bool `toml:"enable_filter"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	MaxWords     int `toml:"max_words"`
	MinFrequency int `toml:"min_frequency"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordfix")
	if err := utils.WritableDir(primaryPath); err == nil {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordfix")
	if err := utils.WritableDir(macOSPath); err == nil {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
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
// 2. Default path: [UserConfigDir]/wordfix/config.toml
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
		Match: MatchConfig{
			MaxDepth:  score.DefaultMaxDepth,
			Strategy:  "graph",
			CacheSize: 1024,
			Workers:   4,
		},
		Server: ServerConfig{
			MaxLimit:     64,
			MaxQuery:     48,
			EnableFilter: true,
		},
		Dict: DictConfig{
			MaxWords:     50000,
			MinFrequency: 0,
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			DefaultNoFilter: false,
		},
	}
}

// Validate reports values the matching engine cannot run with.
func (c *Config) Validate() error {
	if err := score.CheckDepth(c.Match.MaxDepth); err != nil {
		return err
	}
	if c.Server.MaxLimit < 1 {
		return fmt.Errorf("%w: server.max_limit must be >= 1, got %d", score.ErrInvalidConfig, c.Server.MaxLimit)
	}
	if c.Server.MaxQuery < 1 {
		return fmt.Errorf("%w: server.max_query must be >= 1, got %d", score.ErrInvalidConfig, c.Server.MaxQuery)
	}
	if c.Dict.MaxWords < 0 || c.Dict.MinFrequency < 0 {
		return fmt.Errorf("%w: dict limits must not be negative", score.ErrInvalidConfig)
	}
	return nil
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

	unknown, err := utils.DecodeTOMLFile(configPath, config)
	if err != nil {
		log.Warnf("TOML parsing error in config file: %v. Attempting partial recovery...", err)
		return tryPartialParse(configPath)
	}
	if len(unknown) > 0 {
		log.Warnf("Ignoring unknown keys in %s: %v", configPath, unknown)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes; the rest stays default.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLTable(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if matchSection, ok := utils.ExtractSection(tempConfig, "match"); ok {
		extractMatchConfig(matchSection, &config.Match)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractMatchConfig(data map[string]any, match *MatchConfig) {
	if val, ok := utils.ExtractInt(data, "max_depth"); ok {
		match.MaxDepth = val
	}
	if val, ok := utils.Extract[string](data, "strategy"); ok {
		match.Strategy = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		match.CacheSize = val
	}
	if val, ok := utils.ExtractInt(data, "workers"); ok {
		match.Workers = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.Extract[bool](data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt(data, "min_frequency"); ok {
		dict.MinFrequency = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.Extract[bool](data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// GetActiveConfigPath returns the absolute path of the loaded config file.
// An empty configPath means built-in defaults were used.
func GetActiveConfigPath(configPath string) (string, error) {
	if configPath == "" {
		return "", fmt.Errorf("built-in defaults: %w", utils.ErrEmptyPath)
	}
	return utils.AbsolutePath(configPath)
}

// SaveConfig writes config to configPath, replacing any previous file whole.
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLAtomic(configPath, config)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit, maxQuery *int, enableFilter *bool) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if maxQuery != nil {
		server.MaxQuery = *maxQuery
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	return SaveConfig(c, configPath)
}
