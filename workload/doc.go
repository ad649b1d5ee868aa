// Package workload defines the orchestration contract whisperbox uses to run
// the speech-to-text inference service. The lifecycle controller only sees
// this interface; the Docker implementation lives in workload/docker, and a
// static implementation covers externally managed endpoints.
//
// # Backends
//
//   - workload/docker: one named container managed via the Docker Engine SDK
//   - StaticManager: fixed endpoint supplied by configuration, no lifecycle
package workload
