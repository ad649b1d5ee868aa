package lifecycle

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/workload"
)

// fakeManager is a scriptable workload.Manager with call counters.
type fakeManager struct {
	mu         sync.Mutex
	startCalls int
	stopCalls  int

	startErr error
	stopErr  error
	ports    []int
	running  bool
	health   workload.Health
}

func newFakeManager(ports ...int) *fakeManager {
	return &fakeManager{ports: ports, health: workload.HealthHealthy}
}

func (f *fakeManager) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeManager) Stop(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	if f.stopErr != nil {
		return f.stopErr
	}
	f.running = false
	return nil
}

func (f *fakeManager) Status(_ context.Context) (*workload.ServiceState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &workload.ServiceState{Running: f.running, Health: f.health}, nil
}

func (f *fakeManager) Info(_ context.Context) (*workload.ServiceInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &workload.ServiceInfo{Name: "stt", Ports: f.ports}, nil
}

func (f *fakeManager) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls, f.stopCalls
}

func newTestController(m workload.Manager) *Controller {
	log := logger.NewDefault("test")
	return NewController(
		ControllerConfig{StartTimeout: time.Second, PollInterval: time.Millisecond},
		m,
		NewResolver(),
		NewMonitor(MonitorConfig{Timeout: 100 * time.Millisecond}, log),
		log,
	)
}

func TestController_StartResolvesEndpoint(t *testing.T) {
	mgr := newFakeManager(32768, 32769)
	c := newTestController(mgr)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if c.State() != StateRunning {
		t.Errorf("expected Running, got %s", c.State())
	}
	ep, ok := c.Resolver().Current()
	if !ok {
		t.Fatal("expected resolved endpoint")
	}
	if ep.Port != 32768 {
		t.Errorf("expected first reported port 32768, got %d", ep.Port)
	}
}

func TestController_StartIsIdempotent(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	if starts, _ := mgr.calls(); starts != 1 {
		t.Errorf("expected 1 runtime start call, got %d", starts)
	}
}

func TestController_ConcurrentStartsCollapse(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Start(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: Start() error = %v", i, err)
		}
	}
	if starts, _ := mgr.calls(); starts != 1 {
		t.Errorf("expected exactly 1 runtime start call, got %d", starts)
	}
	if c.State() != StateRunning {
		t.Errorf("expected Running, got %s", c.State())
	}
}

func TestController_ZeroPortsIsStartFailure(t *testing.T) {
	mgr := newFakeManager() // no ports
	c := newTestController(mgr)

	err := c.Start(context.Background())
	if !errors.Is(err, errors.KindEndpointUnavailable) {
		t.Fatalf("expected ENDPOINT_UNAVAILABLE, got %v", err)
	}
	if c.State() != StateError {
		t.Errorf("expected Error state, got %s", c.State())
	}
	if _, ok := c.Resolver().Current(); ok {
		t.Error("expected no endpoint after failed resolution")
	}
}

func TestController_StartFailureMapsToError(t *testing.T) {
	mgr := newFakeManager(9000)
	mgr.startErr = stderrors.New("docker daemon unreachable")
	c := newTestController(mgr)

	err := c.Start(context.Background())
	if !errors.Is(err, errors.KindLifecycle) {
		t.Fatalf("expected LIFECYCLE_ERROR, got %v", err)
	}
	if !stderrors.Is(err, mgr.startErr) {
		t.Error("expected underlying cause to be preserved")
	}
	if c.State() != StateError {
		t.Errorf("expected Error state, got %s", c.State())
	}

	snap := c.Status()
	if snap.Err == "" {
		t.Error("expected snapshot to carry the failure cause")
	}
}

func TestController_ErrorIsNotADeadEnd(t *testing.T) {
	mgr := newFakeManager(9000)
	mgr.startErr = stderrors.New("transient daemon failure")
	c := newTestController(mgr)

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected first start to fail")
	}

	mgr.mu.Lock()
	mgr.startErr = nil
	mgr.mu.Unlock()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("retry after Error failed: %v", err)
	}
	if c.State() != StateRunning {
		t.Errorf("expected Running after retry, got %s", c.State())
	}
}

func TestController_StopIsIdempotent(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() on stopped service error = %v", err)
	}
	if _, stops := mgr.calls(); stops != 0 {
		t.Errorf("expected no runtime stop call, got %d", stops)
	}
}

func TestController_StopClearsEndpoint(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if c.State() != StateStopped {
		t.Errorf("expected Stopped, got %s", c.State())
	}
	if _, ok := c.Resolver().Current(); ok {
		t.Error("expected endpoint invalidated after stop")
	}
}

func TestController_StopFailureMapsToError(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	mgr.mu.Lock()
	mgr.stopErr = stderrors.New("stop timed out")
	mgr.mu.Unlock()

	err := c.Stop(context.Background())
	if !errors.Is(err, errors.KindLifecycle) {
		t.Fatalf("expected LIFECYCLE_ERROR, got %v", err)
	}
	if c.State() != StateError {
		t.Errorf("expected Error state, got %s", c.State())
	}
}

func TestController_AvailableFailsClosedWhenNotRunning(t *testing.T) {
	mgr := newFakeManager(9000)
	c := newTestController(mgr)

	if c.Available(context.Background()) {
		t.Error("expected unavailable while stopped")
	}
}

func TestController_StatusSnapshotWhileStopped(t *testing.T) {
	c := newTestController(newFakeManager(9000))
	snap := c.Status()
	if snap.State != StateStopped {
		t.Errorf("expected Stopped, got %s", snap.State)
	}
	if snap.Endpoint != nil {
		t.Error("expected nil endpoint while stopped")
	}
}
