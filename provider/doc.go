// Package provider defines the pluggable speech-to-text provider contract
// and a generic registry for named provider factories.
//
// A provider fronts one transcription backend (a managed container, an
// externally hosted service) and exposes availability, lifecycle hooks and
// model access. Factories are registered by name and instantiated from raw
// configuration maps; unknown configuration keys are rejected at creation
// time so typos fail loudly instead of silently falling back to defaults.
//
// Opt-in extensions:
//   - HealthChecker: providers that report detailed health for diagnostics
//   - Closeable: providers that hold local handles (runtime API clients,
//     pooled connections) needing cleanup when the caller is done
package provider
