package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at a config file.
const EnvConfigPath = "HITVCR_CONFIG"

// Config represents the hitvcr configuration
type Config struct {
	Options   Options `yaml:"options,omitempty" json:"options,omitempty"`     // Static recorder options, applied before every test
	Tag       string  `yaml:"tag,omitempty" json:"tag,omitempty"`             // Directive tag, "@vcr" by default
	TestDir   string  `yaml:"testDir,omitempty" json:"testDir,omitempty"`     // Directory scanned for *_test.go files
	LogLevel  string  `yaml:"logLevel,omitempty" json:"logLevel,omitempty"`   // debug, info, warn, error
	LogFormat string  `yaml:"logFormat,omitempty" json:"logFormat,omitempty"` // text or json
	Verbose   *bool   `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	NoColor   *bool   `yaml:"noColor,omitempty" json:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitvcr.yml",
	".hitvcr.yaml",
	".hitvcr.json",
	"hitvcr.config.json",
}

// LoadConfig loads configuration from path. An empty path falls back to
// $HITVCR_CONFIG and then to a search of the current directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file. JSON files
// are decoded by the YAML decoder too, which keeps option order.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes a YAML or JSON config document on top of the defaults.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Tag != "" {
		result.Tag = other.Tag
	}
	if other.TestDir != "" {
		result.TestDir = other.TestDir
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Options merge by name; new names keep their relative order at the end
	if len(other.Options) > 0 {
		merged := make(Options, len(c.Options))
		copy(merged, c.Options)
		for _, opt := range other.Options {
			merged = merged.Set(opt.Name, opt.Value)
		}
		result.Options = merged
	}

	return &result
}

// SaveConfig saves the configuration to a file. Files ending in .json are
// written as JSON, everything else as YAML.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
