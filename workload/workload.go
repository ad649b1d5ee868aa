package workload

import "context"

// Health reports the runtime's view of service health.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthUnhealthy Health = "unhealthy"
	HealthUnknown   Health = "unknown"
)

// Provider constants for well-known runtimes.
const (
	ProviderDocker  = "docker"
	ProviderProcess = "process"
	ProviderStatic  = "static"
)

// ServiceState is a point-in-time snapshot of the managed service as
// observed by the runtime.
type ServiceState struct {
	// Running reports whether the service process is up.
	Running bool
	// Health is the runtime's health verdict for the service.
	Health Health
	// Message carries the runtime's status or error description.
	Message string
}

// ServiceInfo describes how to reach the managed service.
type ServiceInfo struct {
	// Name identifies the service instance (container name for Docker).
	Name string
	// Host is the address the published ports are reachable on. Empty means
	// the caller's default (localhost for local runtimes).
	Host string
	// Ports lists the host ports the service publishes, in the runtime's
	// reported order. The first entry is the primary endpoint.
	Ports []int
}

// Manager manages the lifecycle of one inference service instance.
// Every method is fallible and must be wrapped by the caller; errors are
// never allowed to escape raw past the lifecycle controller.
type Manager interface {
	// Start ensures the service exists and is running.
	Start(ctx context.Context) error

	// Stop gracefully stops the service. Stopping an already stopped
	// service is not an error.
	Stop(ctx context.Context) error

	// Status returns the current observed state of the service.
	Status(ctx context.Context) (*ServiceState, error)

	// Info returns connectivity details for the running service.
	Info(ctx context.Context) (*ServiceInfo, error)
}

// LogTailer is optionally implemented by managers that can surface recent
// service log output for diagnostics.
type LogTailer interface {
	TailLogs(ctx context.Context, lines int) ([]string, error)
}
