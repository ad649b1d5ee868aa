// Package lifecycle manages the running state of the inference service:
// starting and stopping it through a workload.Manager, resolving its
// dynamically assigned endpoint after every Running transition, and reducing
// liveness probes to an availability verdict.
//
// The Controller serializes lifecycle transitions; status and endpoint reads
// are lock-free snapshots so transcription calls are never blocked by an
// in-flight start or stop.
package lifecycle
