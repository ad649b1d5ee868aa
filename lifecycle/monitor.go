package lifecycle

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/whisperbox/logger"
)

const (
	defaultProbePath    = "/health"
	defaultProbeTimeout = 5 * time.Second
	defaultFreshFor     = 30 * time.Second
)

// MonitorConfig configures liveness probing.
type MonitorConfig struct {
	// Path is the liveness endpoint on the service base URL.
	Path string `yaml:"path" mapstructure:"path"`
	// Timeout bounds a single probe. It is deliberately short and separate
	// from the transcription request timeout so availability checks never
	// block for minutes.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// FreshFor is how long a successful probe counts as evidence of health.
	// Older probes are treated as absent (fail-closed).
	FreshFor time.Duration `yaml:"fresh_for" mapstructure:"fresh_for"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *MonitorConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = defaultProbePath
	}
	if c.Timeout == 0 {
		c.Timeout = defaultProbeTimeout
	}
	if c.FreshFor == 0 {
		c.FreshFor = defaultFreshFor
	}
}

// Monitor issues lightweight liveness probes against the resolved endpoint.
// Probe failure is data, never an error: network failures, non-2xx statuses
// and timeouts all reduce to false.
type Monitor struct {
	cfg    MonitorConfig
	client *http.Client
	log    *logger.Logger

	mu        sync.RWMutex
	healthy   bool
	probedAt  time.Time
	probedURL string

	now func() time.Time
}

// NewMonitor creates a health monitor.
func NewMonitor(cfg MonitorConfig, log *logger.Logger) *Monitor {
	cfg.ApplyDefaults()
	return &Monitor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.WithComponent("health"),
		now: time.Now,
	}
}

// Probe issues one best-effort liveness request against the endpoint and
// records the outcome. Any 2xx status is healthy.
func (m *Monitor) Probe(ctx context.Context, endpoint Endpoint) bool {
	url := endpoint.BaseURL + m.cfg.Path
	healthy := m.probeOnce(ctx, url)

	m.mu.Lock()
	prev := m.healthy
	m.healthy = healthy
	m.probedAt = m.now()
	m.probedURL = url
	m.mu.Unlock()

	if prev != healthy {
		m.log.Info("health state changed", map[string]interface{}{
			logger.FieldEndpoint: endpoint.BaseURL,
			"healthy":            healthy,
		})
	}
	return healthy
}

// Fresh reports whether the most recent probe succeeded and is recent
// enough to trust. A stale or absent probe is unavailable.
func (m *Monitor) Fresh() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.healthy || m.probedAt.IsZero() {
		return false
	}
	return m.now().Sub(m.probedAt) <= m.cfg.FreshFor
}

// Check returns the fresh probe verdict, issuing a new probe first if the
// cached one has gone stale.
func (m *Monitor) Check(ctx context.Context, endpoint Endpoint) bool {
	if m.Fresh() {
		m.mu.RLock()
		sameTarget := m.probedURL == endpoint.BaseURL+m.cfg.Path
		m.mu.RUnlock()
		if sameTarget {
			return true
		}
	}
	return m.Probe(ctx, endpoint)
}

// Reset forgets any recorded probe outcome.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.healthy = false
	m.probedAt = time.Time{}
	m.probedURL = ""
	m.mu.Unlock()
}

func (m *Monitor) probeOnce(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
