/*
Package config manages TOML config for the typeahead services.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhasab/typeahead/internal/utils"
	"github.com/nhasab/typeahead/pkg/typeahead"
)

// Config holds the entire config structure
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Pipeline PipelineConfig `toml:"pipeline"`
	CLI      CliConfig      `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
	MaxQuery int `toml:"max_query"`
}

// PipelineConfig holds the suggestion pipeline options.
type PipelineConfig struct {
	MinLength         int    `toml:"min_length"`
	WaitMs            int    `toml:"wait_ms"`
	OptionsLimit      int    `toml:"options_limit"`
	OptionField       string `toml:"option_field"`
	GroupField        string `toml:"group_field"`
	OrderField        string `toml:"order_field"`
	OrderDirection    string `toml:"order_direction"`
	Latinize          bool   `toml:"latinize"`
	SingleWords       bool   `toml:"single_words"`
	WordDelimiters    string `toml:"word_delimiters"`
	PhraseDelimiters  string `toml:"phrase_delimiters"`
	PrefixOnly        bool   `toml:"prefix_only"`
	CancelOnFocusLost bool   `toml:"cancel_on_focus_lost"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
	AsyncDelayMs int `toml:"async_delay_ms"`
}

// Runtime converts the file representation into the pipeline's Config.
func (pc PipelineConfig) Runtime() typeahead.Config {
	cfg := typeahead.DefaultConfig()
	cfg.MinLength = pc.MinLength
	cfg.Wait = time.Duration(pc.WaitMs) * time.Millisecond
	cfg.OptionsLimit = pc.OptionsLimit
	cfg.OptionField = pc.OptionField
	cfg.GroupField = pc.GroupField
	cfg.Latinize = pc.Latinize
	cfg.SingleWords = pc.SingleWords
	cfg.WordDelimiters = pc.WordDelimiters
	cfg.PhraseDelimiters = pc.PhraseDelimiters
	cfg.PrefixOnly = pc.PrefixOnly
	cfg.CancelOnFocusLost = pc.CancelOnFocusLost
	if pc.OrderField != "" || pc.OrderDirection != "" {
		cfg.OrderBy = &typeahead.OrderSpec{Field: pc.OrderField, Direction: pc.OrderDirection}
	}
	return cfg
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "typeahead")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "typeahead")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
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
// 2. Default path: [UserConfigDir]/typeahead/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
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

	config, err = InitConfig(defaultPath)
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
		Server: ServerConfig{
			MaxLimit: 64,
			MaxQuery: 256,
		},
		Pipeline: PipelineConfig{
			MinLength:         typeahead.DefaultMinLength,
			WaitMs:            0,
			OptionsLimit:      typeahead.DefaultOptionsLimit,
			Latinize:          true,
			SingleWords:       true,
			WordDelimiters:    typeahead.DefaultWordDelimiters,
			PhraseDelimiters:  typeahead.DefaultPhraseDelimiters,
			CancelOnFocusLost: false,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
			AsyncDelayMs: 0,
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

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if pipelineSection, ok := utils.ExtractSection(tempConfig, "pipeline"); ok {
		extractPipelineConfig(pipelineSection, &config.Pipeline)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
}

// extractPipelineConfig extracts pipeline configuration from a map
func extractPipelineConfig(data map[string]any, pipeline *PipelineConfig) {
	if val, ok := utils.ExtractInt64(data, "min_length"); ok {
		pipeline.MinLength = val
	}
	if val, ok := utils.ExtractInt64(data, "wait_ms"); ok {
		pipeline.WaitMs = val
	}
	if val, ok := utils.ExtractInt64(data, "options_limit"); ok {
		pipeline.OptionsLimit = val
	}
	if val, ok := utils.ExtractString(data, "option_field"); ok {
		pipeline.OptionField = val
	}
	if val, ok := utils.ExtractString(data, "group_field"); ok {
		pipeline.GroupField = val
	}
	if val, ok := utils.ExtractString(data, "order_field"); ok {
		pipeline.OrderField = val
	}
	if val, ok := utils.ExtractString(data, "order_direction"); ok {
		pipeline.OrderDirection = val
	}
	if val, ok := utils.ExtractBool(data, "latinize"); ok {
		pipeline.Latinize = val
	}
	if val, ok := utils.ExtractBool(data, "single_words"); ok {
		pipeline.SingleWords = val
	}
	if val, ok := utils.ExtractString(data, "word_delimiters"); ok {
		pipeline.WordDelimiters = val
	}
	if val, ok := utils.ExtractString(data, "phrase_delimiters"); ok {
		pipeline.PhraseDelimiters = val
	}
	if val, ok := utils.ExtractBool(data, "prefix_only"); ok {
		pipeline.PrefixOnly = val
	}
	if val, ok := utils.ExtractBool(data, "cancel_on_focus_lost"); ok {
		pipeline.CancelOnFocusLost = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "async_delay_ms"); ok {
		cli.AsyncDelayMs = val
	}
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
