package config

import (
	"fmt"

	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/whisper"
	"github.com/kbukum/whisperbox/workload"
)

// Config is the root whisperbox configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging logger.Config  `yaml:"logging" mapstructure:"logging"`
	Whisper whisper.Config `yaml:"whisper" mapstructure:"whisper"`
}

// ApplyDefaults fills in zero-valued fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "whisperbox"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Whisper.ApplyDefaults()
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch c.Whisper.Provider {
	case workload.ProviderStatic:
		if err := c.Whisper.Static.Validate(); err != nil {
			return fmt.Errorf("whisper: %w", err)
		}
	case workload.ProviderProcess:
		if err := c.Whisper.Process.Validate(); err != nil {
			return fmt.Errorf("whisper: %w", err)
		}
	}
	return nil
}

// Load reads configuration from config.yml and .env files plus environment
// variables, applies defaults and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig("whisperbox", cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
