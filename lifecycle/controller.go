package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/whisperbox/errors"
	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/workload"
)

// State is the lifecycle state of the managed service.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateError    State = "error"
)

// Snapshot is a point-in-time, read-only view of the service lifecycle.
type Snapshot struct {
	// State is the controller's lifecycle state.
	State State
	// Degraded is set when the service is Running but the latest liveness
	// probe did not succeed.
	Degraded bool
	// Err carries the failure cause when State is StateError.
	Err string
	// Endpoint is the resolved endpoint while Running, nil otherwise.
	Endpoint *Endpoint
}

// ControllerConfig configures start/stop behavior.
type ControllerConfig struct {
	// StartTimeout bounds how long a start waits for the runtime to report
	// the service ready.
	StartTimeout time.Duration `yaml:"start_timeout" mapstructure:"start_timeout"`
	// PollInterval is the readiness polling cadence during start.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *ControllerConfig) ApplyDefaults() {
	if c.StartTimeout == 0 {
		c.StartTimeout = 2 * time.Minute
	}
	if c.PollInterval == 0 {
		c.PollInterval = 500 * time.Millisecond
	}
}

// Controller drives the service lifecycle state machine:
//
//	Stopped -> Starting -> Running -> Stopping -> Stopped
//	Starting|Running -> Error -> Starting (retry is always permitted)
//
// Start and Stop are idempotent and transitions are serialized. Every
// runtime error is caught and mapped into the Error state with its cause
// preserved instead of propagated raw.
type Controller struct {
	cfg      ControllerConfig
	manager  workload.Manager
	resolver *Resolver
	monitor  *Monitor
	log      *logger.Logger

	// transition serializes Start/Stop so concurrent calls collapse into
	// the idempotent path instead of issuing duplicate runtime calls.
	transition sync.Mutex

	// mu guards state reads so Status() never blocks on a transition.
	mu      sync.RWMutex
	state   State
	lastErr string
}

// NewController creates a lifecycle controller. The resolver and monitor are
// owned by the controller's lifetime; clients hold read-only references.
func NewController(cfg ControllerConfig, manager workload.Manager, resolver *Resolver, monitor *Monitor, log *logger.Logger) *Controller {
	cfg.ApplyDefaults()
	return &Controller{
		cfg:      cfg,
		manager:  manager,
		resolver: resolver,
		monitor:  monitor,
		log:      log.WithComponent("lifecycle"),
		state:    StateStopped,
	}
}

// Resolver returns the endpoint resolver owned by this controller.
func (c *Controller) Resolver() *Resolver { return c.resolver }

// Monitor returns the health monitor owned by this controller.
func (c *Controller) Monitor() *Monitor { return c.monitor }

// Manager returns the workload manager driving this controller. Callers use
// it for diagnostics such as log tailing.
func (c *Controller) Manager() workload.Manager { return c.manager }

// State returns the current lifecycle state without blocking on any
// in-flight transition.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Status returns an atomic snapshot of the lifecycle.
func (c *Controller) Status() Snapshot {
	c.mu.RLock()
	state := c.state
	lastErr := c.lastErr
	c.mu.RUnlock()

	snap := Snapshot{State: state, Err: lastErr}
	if state == StateRunning {
		if ep, ok := c.resolver.Current(); ok {
			snap.Endpoint = &ep
		}
		snap.Degraded = !c.monitor.Fresh()
	}
	return snap
}

// Start brings the service up. Calling Start while Running or Starting
// returns immediately without re-invoking the runtime. A previous Error
// state is reset; retry is always permitted.
func (c *Controller) Start(ctx context.Context) error {
	c.transition.Lock()
	defer c.transition.Unlock()

	switch c.State() {
	case StateRunning, StateStarting:
		return nil
	}

	c.setState(StateStarting, "")
	c.log.Info("starting service")

	if err := c.manager.Start(ctx); err != nil {
		return c.fail("start", err)
	}

	if err := c.awaitReady(ctx); err != nil {
		return c.fail("start", err)
	}

	info, err := c.manager.Info(ctx)
	if err != nil {
		return c.fail("resolve endpoint", err)
	}

	ep, err := c.resolver.Resolve(info)
	if err != nil {
		// Zero ports is a start failure, not a fallback to a guessed port.
		c.setState(StateError, err.Error())
		return err
	}

	c.monitor.Reset()
	c.setState(StateRunning, "")
	c.log.Info("service running", map[string]interface{}{
		logger.FieldEndpoint: ep.BaseURL,
	})

	// Seed the availability verdict; failure here is data, not an error.
	c.monitor.Probe(ctx, ep)

	return nil
}

// Stop brings the service down. Stopping an already stopped service is a
// no-op success.
func (c *Controller) Stop(ctx context.Context) error {
	c.transition.Lock()
	defer c.transition.Unlock()

	if c.State() == StateStopped {
		return nil
	}

	c.setState(StateStopping, "")
	c.log.Info("stopping service")

	if err := c.manager.Stop(ctx); err != nil {
		return c.fail("stop", err)
	}

	c.resolver.Invalidate()
	c.monitor.Reset()
	c.setState(StateStopped, "")
	c.log.Info("service stopped")
	return nil
}

// Available reports whether the service can take requests right now:
// lifecycle Running and a fresh successful probe. Absent or stale probes
// count as unavailable.
func (c *Controller) Available(ctx context.Context) bool {
	if c.State() != StateRunning {
		return false
	}
	ep, ok := c.resolver.Current()
	if !ok {
		return false
	}
	return c.monitor.Check(ctx, ep)
}

// awaitReady polls the runtime until the service reports running and not
// unhealthy, the start timeout elapses, or the context is cancelled.
func (c *Controller) awaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.StartTimeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	var lastState *workload.ServiceState
	for {
		state, err := c.manager.Status(ctx)
		if err == nil {
			lastState = state
			if state.Running && state.Health != workload.HealthUnhealthy {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			msg := "service did not become ready"
			if lastState != nil && lastState.Message != "" {
				msg = msg + ": " + lastState.Message
			}
			return errors.ServiceUnavailable(msg).WithCause(ctx.Err())
		case <-ticker.C:
		}
	}
}

// fail records an Error state with the cause preserved and returns the
// typed lifecycle error.
func (c *Controller) fail(op string, err error) error {
	lifecycleErr := errors.Lifecycle(op, err)
	c.setState(StateError, lifecycleErr.Error())
	c.log.WithError(err).Error("lifecycle operation failed", map[string]interface{}{
		logger.FieldOperation: op,
	})
	return lifecycleErr
}

func (c *Controller) setState(state State, errMsg string) {
	c.mu.Lock()
	prev := c.state
	c.state = state
	c.lastErr = errMsg
	c.mu.Unlock()

	if prev != state {
		c.log.Debug("state transition", logger.Fields("from", string(prev), "to", string(state)))
	}
}
