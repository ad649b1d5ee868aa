package docker

import (
	"errors"
	"fmt"
)

const (
	defaultHost          = "unix:///var/run/docker.sock"
	defaultImage         = "whisperbox/stt-service:latest"
	defaultContainerName = "whisperbox-stt"
	defaultContainerPort = 9000
	defaultStopTimeout   = 30
)

// Config holds Docker-specific runtime configuration for the inference
// service container.
type Config struct {
	Host       string `yaml:"host" mapstructure:"host"`
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`

	// Image is the inference service container image.
	Image string `yaml:"image" mapstructure:"image"`
	// ContainerName names the managed container instance.
	ContainerName string `yaml:"container_name" mapstructure:"container_name"`
	// ContainerPort is the port the service listens on inside the container.
	ContainerPort int `yaml:"container_port" mapstructure:"container_port"`
	// HostPort fixes the published host port. 0 lets Docker assign a
	// dynamic port, which the endpoint resolver discovers after start.
	HostPort int `yaml:"host_port" mapstructure:"host_port"`

	Environment map[string]string `yaml:"environment" mapstructure:"environment"`
	Network     string            `yaml:"network" mapstructure:"network"`
	Platform    string            `yaml:"platform" mapstructure:"platform"`

	// ModelCacheDir is a host directory mounted into the container so model
	// downloads survive restarts. Empty disables the mount.
	ModelCacheDir string `yaml:"model_cache_dir" mapstructure:"model_cache_dir"`

	// MemoryLimit and CPULimit bound container resources ("2g", "1.5").
	MemoryLimit string `yaml:"memory_limit" mapstructure:"memory_limit"`
	CPULimit    string `yaml:"cpu_limit" mapstructure:"cpu_limit"`

	// StopTimeout is the grace period in seconds before the container is
	// killed on stop.
	StopTimeout int `yaml:"stop_timeout" mapstructure:"stop_timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Image == "" {
		c.Image = defaultImage
	}
	if c.ContainerName == "" {
		c.ContainerName = defaultContainerName
	}
	if c.ContainerPort == 0 {
		c.ContainerPort = defaultContainerPort
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = defaultStopTimeout
	}
}

// Validate checks the Docker configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("docker: host is required")
	}
	if c.Image == "" {
		return errors.New("docker: image is required")
	}
	if c.ContainerPort <= 0 || c.ContainerPort > 65535 {
		return fmt.Errorf("docker: container_port must be in 1..65535 (got: %d)", c.ContainerPort)
	}
	if c.HostPort < 0 || c.HostPort > 65535 {
		return fmt.Errorf("docker: host_port must be in 0..65535 (got: %d)", c.HostPort)
	}
	return nil
}
