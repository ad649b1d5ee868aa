package workload

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kbukum/whisperbox/logger"
)

func init() {
	RegisterFactory(ProviderStatic, func(providerCfg any, log *logger.Logger) (Manager, error) {
		cfg, ok := providerCfg.(*StaticConfig)
		if !ok {
			return nil, fmt.Errorf("static: expected *workload.StaticConfig, got %T", providerCfg)
		}
		return NewStaticManager(cfg)
	})
}

// StaticConfig configures a StaticManager from a base URL override.
type StaticConfig struct {
	// BaseURL is the fixed HTTP endpoint of an externally managed service,
	// e.g. "http://stt.internal:9000".
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// Validate checks the static configuration.
func (c *StaticConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("static: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("static: parse base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("static: base_url scheme must be http or https (got: %s)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("static: base_url has no host")
	}
	return nil
}

// StaticManager satisfies Manager for a service whisperbox does not own.
// Start and Stop are no-ops; the service is assumed up, and actual
// reachability is left to the health monitor.
type StaticManager struct {
	host string
	port int
}

// NewStaticManager creates a manager for a fixed, externally managed endpoint.
func NewStaticManager(cfg *StaticConfig) (*StaticManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("static: parse base_url: %w", err)
	}

	port := 0
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("static: parse port %q: %w", p, err)
		}
	} else if u.Scheme == "https" {
		port = 443
	} else {
		port = 80
	}

	return &StaticManager{host: u.Hostname(), port: port}, nil
}

// Start is a no-op for externally managed services.
func (m *StaticManager) Start(_ context.Context) error { return nil }

// Stop is a no-op for externally managed services.
func (m *StaticManager) Stop(_ context.Context) error { return nil }

// Status reports the service as running; health is determined by probing.
func (m *StaticManager) Status(_ context.Context) (*ServiceState, error) {
	return &ServiceState{
		Running: true,
		Health:  HealthUnknown,
		Message: "externally managed",
	}, nil
}

// Info returns the fixed host and port.
func (m *StaticManager) Info(_ context.Context) (*ServiceInfo, error) {
	return &ServiceInfo{
		Name:  "external",
		Host:  m.host,
		Ports: []int{m.port},
	}, nil
}
