package whisper

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/lifecycle"
	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/provider"
	"github.com/kbukum/whisperbox/transcribe"
	"github.com/kbukum/whisperbox/workload"
	"github.com/kbukum/whisperbox/workload/docker"
	"github.com/kbukum/whisperbox/workload/process"
)

// ProviderName is the registered name for the whisper provider.
const ProviderName = "whisper"

// Config assembles the provider: which workload backend runs the inference
// service, how the controller supervises it, and how the client talks to it.
type Config struct {
	// Provider selects the workload backend ("docker" or "static").
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Docker configures the managed container backend.
	Docker docker.Config `yaml:"docker" mapstructure:"docker"`
	// Process configures the locally spawned server backend.
	Process process.Config `yaml:"process" mapstructure:"process"`
	// Static configures the externally managed backend.
	Static workload.StaticConfig `yaml:"static" mapstructure:"static"`
	// Client configures the transcription HTTP client.
	Client transcribe.ClientConfig `yaml:"client" mapstructure:"client"`
	// Monitor configures health probing.
	Monitor lifecycle.MonitorConfig `yaml:"monitor" mapstructure:"monitor"`
	// Controller configures start/stop supervision.
	Controller lifecycle.ControllerConfig `yaml:"controller" mapstructure:"controller"`
	// DefaultModel is the model used when a call names none.
	DefaultModel string `yaml:"default_model" mapstructure:"default_model"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = workload.ProviderDocker
	}
	if c.DefaultModel == "" {
		c.DefaultModel = DefaultModelID
	}
	c.Client.ApplyDefaults()
}

// Provider fronts one faster-whisper inference service: lifecycle control,
// availability, and model access.
type Provider struct {
	cfg    Config
	ctrl   *lifecycle.Controller
	client *transcribe.Client
	log    *logger.Logger
}

// New assembles a provider from typed configuration: workload manager,
// endpoint resolver, health monitor, controller and transcription client.
func New(cfg Config, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()

	var workloadCfg any
	switch cfg.Provider {
	case workload.ProviderDocker:
		workloadCfg = &cfg.Docker
	case workload.ProviderProcess:
		workloadCfg = &cfg.Process
	case workload.ProviderStatic:
		workloadCfg = &cfg.Static
	default:
		return nil, fmt.Errorf("unknown workload provider %q", cfg.Provider)
	}

	mgr, err := workload.New(cfg.Provider, workloadCfg, log)
	if err != nil {
		return nil, fmt.Errorf("create workload manager: %w", err)
	}

	resolver := lifecycle.NewResolver()
	monitor := lifecycle.NewMonitor(cfg.Monitor, log)
	ctrl := lifecycle.NewController(cfg.Controller, mgr, resolver, monitor, log)
	client := transcribe.NewClient(cfg.Client, resolver, ctrl, log)

	if _, ok := Lookup(cfg.DefaultModel); !ok {
		return nil, fmt.Errorf("unknown default model %q", cfg.DefaultModel)
	}

	return &Provider{
		cfg:    cfg,
		ctrl:   ctrl,
		client: client,
		log:    log.WithComponent("whisper"),
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the service can take requests right now. It
// fails closed when the service is not running or health is stale.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.ctrl.Available(ctx)
}

// StartService starts the underlying inference service and blocks until it
// is running with a resolved endpoint.
func (p *Provider) StartService(ctx context.Context) error {
	return p.ctrl.Start(ctx)
}

// StopService stops the underlying inference service.
func (p *Provider) StopService(ctx context.Context) error {
	return p.ctrl.Stop(ctx)
}

// ServiceStatus returns a point-in-time lifecycle snapshot.
func (p *Provider) ServiceStatus() lifecycle.Snapshot {
	return p.ctrl.Status()
}

// Controller exposes the lifecycle controller for diagnostics.
func (p *Provider) Controller() *lifecycle.Controller { return p.ctrl }

// Models returns the model catalog.
func (p *Provider) Models() []ModelInfo { return Models() }

// Model returns a facade bound to the given catalog entry, or the default
// model when id is empty.
func (p *Provider) Model(id string) (*Model, error) {
	if id == "" {
		id = p.cfg.DefaultModel
	}
	info, ok := Lookup(id)
	if !ok {
		return nil, errors.Newf(errors.KindInvalidRequest, "unknown model %q", id).
			WithDetail("model", id)
	}
	return &Model{info: info, client: p.client}, nil
}

// Health maps the lifecycle snapshot onto a provider health report. It
// implements provider.HealthChecker.
func (p *Provider) Health(_ context.Context) provider.HealthStatus {
	snap := p.ctrl.Status()

	status := provider.StatusUnavailable
	message := fmt.Sprintf("service is %s", snap.State)
	switch {
	case snap.State == lifecycle.StateRunning && !snap.Degraded:
		status = provider.StatusHealthy
	case snap.State == lifecycle.StateRunning:
		status = provider.StatusDegraded
		message = "service is running but its liveness probe is stale or failing"
	case snap.Err != "":
		message = snap.Err
	}

	details := map[string]any{"state": string(snap.State)}
	if snap.Endpoint != nil {
		details["endpoint"] = snap.Endpoint.BaseURL
	}

	return provider.HealthStatus{
		Status:  status,
		Message: message,
		Details: details,
	}
}

// Close releases local handles: pooled HTTP connections and the workload
// runtime client. It never stops a running service; StopService does that.
// It implements provider.Closeable.
func (p *Provider) Close(_ context.Context) error {
	p.client.CloseIdleConnections()
	if closer, ok := p.ctrl.Manager().(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Factory returns a provider.Factory that builds whisper providers from a
// flat configuration map. Unknown keys are rejected, and so are recognized
// keys carrying a value of the wrong type.
func Factory(log *logger.Logger) provider.Factory[*Provider] {
	return func(raw map[string]any) (*Provider, error) {
		cfg := Config{}
		for key, value := range raw {
			var err error
			switch key {
			case "provider":
				cfg.Provider, err = stringOption(key, value)
			case "base_url":
				if cfg.Static.BaseURL, err = stringOption(key, value); err == nil {
					cfg.Provider = workload.ProviderStatic
				}
			case "image":
				cfg.Docker.Image, err = stringOption(key, value)
			case "container_name":
				cfg.Docker.ContainerName, err = stringOption(key, value)
			case "port":
				cfg.Docker.ContainerPort, err = intOption(key, value)
			case "host_port":
				cfg.Docker.HostPort, err = intOption(key, value)
			case "model":
				cfg.DefaultModel, err = stringOption(key, value)
			case "model_cache_dir":
				cfg.Docker.ModelCacheDir, err = stringOption(key, value)
			case "timeout":
				cfg.Client.Timeout, err = durationOption(key, value)
			case "retries":
				// retries counts additional attempts after the first.
				var retries int
				if retries, err = intOption(key, value); err == nil {
					if retries < 0 {
						err = fmt.Errorf("configuration key %q must not be negative", key)
					} else {
						cfg.Client.MaxAttempts = retries + 1
					}
				}
			default:
				return nil, fmt.Errorf("unknown configuration key %q", key)
			}
			if err != nil {
				return nil, err
			}
		}
		return New(cfg, log)
	}
}

func stringOption(key string, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("configuration key %q expects a string, got %T", key, value)
	}
	return v, nil
}

func intOption(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64.
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("configuration key %q expects an integer, got %v", key, v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("configuration key %q expects an integer, got %T", key, value)
}

// durationOption accepts integer milliseconds, a duration string such as
// "90s", or a time.Duration value.
func durationOption(key string, value any) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("configuration key %q: %w", key, err)
		}
		return d, nil
	}
	ms, err := intOption(key, value)
	if err != nil {
		return 0, fmt.Errorf("configuration key %q expects milliseconds or a duration string, got %T", key, value)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
