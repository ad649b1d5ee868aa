package lifecycle

import (
	"testing"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/workload"
)

func TestResolver_FirstPortWins(t *testing.T) {
	r := NewResolver()

	ep, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Ports: []int{9001, 9002}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ep.Port != 9001 {
		t.Errorf("expected first port 9001, got %d", ep.Port)
	}
	if ep.BaseURL != "http://localhost:9001" {
		t.Errorf("expected baseURL from port 9001, got %s", ep.BaseURL)
	}
}

func TestResolver_ZeroPortsFails(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve(&workload.ServiceInfo{Name: "stt"})
	if !errors.Is(err, errors.KindEndpointUnavailable) {
		t.Fatalf("expected ENDPOINT_UNAVAILABLE, got %v", err)
	}
	if _, ok := r.Current(); ok {
		t.Error("failed resolution must not store an endpoint")
	}
}

func TestResolver_NilInfoFails(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve(nil); !errors.Is(err, errors.KindEndpointUnavailable) {
		t.Fatalf("expected ENDPOINT_UNAVAILABLE, got %v", err)
	}
}

func TestResolver_InvalidPortFails(t *testing.T) {
	r := NewResolver()
	_, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Ports: []int{0}})
	if !errors.Is(err, errors.KindEndpointUnavailable) {
		t.Fatalf("expected ENDPOINT_UNAVAILABLE, got %v", err)
	}
}

func TestResolver_HostOverride(t *testing.T) {
	r := NewResolver()

	ep, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Host: "stt.internal", Ports: []int{8080}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if ep.BaseURL != "http://stt.internal:8080" {
		t.Errorf("expected host override in baseURL, got %s", ep.BaseURL)
	}
}

func TestResolver_ReResolutionReplacesValue(t *testing.T) {
	r := NewResolver()

	first, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Ports: []int{32768}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Simulate a restart publishing a new dynamic port.
	second, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Ports: []int{32801}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if first.Port != 32768 {
		t.Errorf("earlier value must not be mutated, got port %d", first.Port)
	}
	cur, ok := r.Current()
	if !ok || cur.Port != second.Port {
		t.Errorf("expected current endpoint port %d, got %v (ok=%v)", second.Port, cur.Port, ok)
	}
}

func TestResolver_Invalidate(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve(&workload.ServiceInfo{Name: "stt", Ports: []int{9000}}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	r.Invalidate()
	if _, ok := r.Current(); ok {
		t.Error("expected no endpoint after Invalidate")
	}
}
