package provider

import "context"

// Status classifies how usable a transcription backend currently is.
type Status int

const (
	// StatusHealthy means the backend is running with a fresh liveness verdict.
	StatusHealthy Status = iota
	// StatusDegraded means the backend is running but its liveness probe is
	// stale or failing. Requests may still succeed.
	StatusDegraded
	// StatusUnavailable means the backend cannot take requests.
	StatusUnavailable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// HealthStatus is a point-in-time health report for one provider.
type HealthStatus struct {
	// Status is the overall verdict.
	Status Status
	// Message explains the verdict in one line.
	Message string
	// Details carries provider-specific metadata such as the lifecycle
	// state or the resolved endpoint.
	Details map[string]any
}

// HealthChecker is optionally implemented by providers that can report more
// detail than the IsAvailable bool, for status commands and diagnostics.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}
