package lifecycle

import (
	"fmt"
	"sync"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/workload"
)

const defaultHost = "localhost"

// Endpoint is the host:port pair at which the inference service currently
// accepts HTTP requests. Values are immutable; a new resolution produces a
// new Endpoint rather than mutating a previous one.
type Endpoint struct {
	Host    string
	Port    int
	BaseURL string
}

// NewEndpoint builds an Endpoint with its canonical base URL.
func NewEndpoint(host string, port int) Endpoint {
	return Endpoint{
		Host:    host,
		Port:    port,
		BaseURL: fmt.Sprintf("http://%s:%d", host, port),
	}
}

// Resolver derives the current endpoint of the inference service from the
// connectivity info the runtime reports. It is invoked exactly once per
// Running transition; between transitions the last resolved value is
// authoritative.
type Resolver struct {
	mu      sync.RWMutex
	current *Endpoint
}

// NewResolver creates an empty resolver with no endpoint.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve derives a fresh endpoint from service info. The first reported
// port is the primary endpoint; this is a fixed tie-break, not a
// negotiation. Zero ports fail with ENDPOINT_UNAVAILABLE and the caller must
// treat that as a start failure, never fall back to an invented port.
func (r *Resolver) Resolve(info *workload.ServiceInfo) (Endpoint, error) {
	if info == nil || len(info.Ports) == 0 {
		name := "unknown"
		if info != nil && info.Name != "" {
			name = info.Name
		}
		return Endpoint{}, errors.EndpointUnavailable(name)
	}

	port := info.Ports[0]
	if port <= 0 {
		return Endpoint{}, errors.EndpointUnavailable(info.Name).
			WithDetail("port", port)
	}

	host := info.Host
	if host == "" {
		host = defaultHost
	}

	ep := NewEndpoint(host, port)

	r.mu.Lock()
	r.current = &ep
	r.mu.Unlock()

	return ep, nil
}

// Current returns the most recently resolved endpoint. Callers must re-read
// before every operation rather than caching the value, because the port can
// change across service restarts.
func (r *Resolver) Current() (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return Endpoint{}, false
	}
	return *r.current, true
}

// Invalidate clears the resolved endpoint; called when the service leaves
// the Running state.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}
