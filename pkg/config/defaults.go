package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultLocale         = "generic"
	DefaultStore          = "billscan.db"
	DefaultOutputFormat   = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvLocale = "BILLSCAN_LOCALE"
	EnvStore  = "BILLSCAN_STORE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Locale: DefaultLocale,
		Store:  DefaultStore,
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}

// ApplyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvironmentOverrides() {
	if locale := os.Getenv(EnvLocale); locale != "" {
		c.Locale = locale
	}
	if store := os.Getenv(EnvStore); store != "" {
		c.Store = store
	}
}
