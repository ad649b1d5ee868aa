package process

import (
	"fmt"
	"time"
)

// Config configures a locally spawned inference server process.
type Config struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Args are the command-line arguments.
	Args []string `yaml:"args" mapstructure:"args"`
	// Dir is the working directory. Empty means the current directory.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Env is additional environment variables (key=value), merged over the
	// parent environment.
	Env []string `yaml:"env" mapstructure:"env"`
	// Port is the host port the server listens on.
	Port int `yaml:"port" mapstructure:"port"`
	// GracePeriod is how long Stop waits after SIGTERM before SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the process configuration.
func (c *Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("process: binary is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("process: port must be in 1..65535 (got: %d)", c.Port)
	}
	return nil
}
