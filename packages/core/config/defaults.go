package config

// DefaultTag is the directive tag used when none is configured.
const DefaultTag = "@vcr"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Options:   nil,
		Tag:       DefaultTag,
		TestDir:   ".",
		LogLevel:  "info",
		LogFormat: "text",
		Verbose:   BoolPtr(false),
		NoColor:   BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return len(c.Options) == 0 &&
		c.Tag == defaults.Tag &&
		c.TestDir == defaults.TestDir &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFormat == defaults.LogFormat &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
