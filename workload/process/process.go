// Package process runs the inference server as a locally spawned child
// process, for installations where Docker is unavailable and the server
// binary is on the host.
package process

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/workload"
)

func init() {
	workload.RegisterFactory(workload.ProviderProcess, func(providerCfg any, log *logger.Logger) (workload.Manager, error) {
		cfg, ok := providerCfg.(*Config)
		if !ok {
			return nil, fmt.Errorf("process: expected *process.Config, got %T", providerCfg)
		}
		return NewManager(*cfg, log)
	})
}

// Manager supervises one child process. The whole process group is
// signalled so server-spawned workers die with it.
type Manager struct {
	cfg  Config
	log  *logger.Logger
	logs *logBuffer

	mu      sync.Mutex
	cmd     *exec.Cmd
	done    chan struct{}
	exitErr error
}

// NewManager creates a process manager.
func NewManager(cfg Config, log *logger.Logger) (*Manager, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:  cfg,
		log:  log.WithComponent("process"),
		logs: newLogBuffer(200),
	}, nil
}

// Start spawns the server process. Starting an already running process is a
// no-op.
func (m *Manager) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runningLocked() {
		return nil
	}

	cmd := exec.Command(m.cfg.Binary, m.cfg.Args...)
	cmd.Dir = m.cfg.Dir
	if len(m.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), m.cfg.Env...)
	}
	cmd.Stdout = m.logs
	cmd.Stderr = m.logs
	// Process group so Stop can signal the entire tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("process: start %s: %w", m.cfg.Binary, err)
	}

	done := make(chan struct{})
	m.cmd = cmd
	m.done = done
	m.exitErr = nil

	go func() {
		err := cmd.Wait()
		m.mu.Lock()
		m.exitErr = err
		m.mu.Unlock()
		close(done)
	}()

	m.log.Info("process started", map[string]interface{}{
		"binary": m.cfg.Binary,
		"pid":    cmd.Process.Pid,
	})
	return nil
}

// Stop sends SIGTERM to the process group, escalating to SIGKILL after the
// grace period. Stopping an already exited process is a no-op.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	cmd, done := m.cmd, m.done
	running := m.runningLocked()
	m.mu.Unlock()

	if !running {
		return nil
	}

	pid := cmd.Process.Pid
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("process: signal pid %d: %w", pid, err)
	}

	grace := time.NewTimer(m.cfg.GracePeriod)
	defer grace.Stop()

	select {
	case <-done:
	case <-grace.C:
		m.log.Warn("grace period elapsed, killing process group", map[string]interface{}{"pid": pid})
		_ = syscall.Kill(-pid, syscall.SIGKILL)
		select {
		case <-done:
		case <-ctx.Done():
			return fmt.Errorf("process: wait for exit: %w", ctx.Err())
		}
	case <-ctx.Done():
		return fmt.Errorf("process: wait for exit: %w", ctx.Err())
	}

	m.log.Info("process stopped", map[string]interface{}{"pid": pid})
	return nil
}

// Status reports whether the child process is still up. Liveness of the
// served endpoint is left to the health monitor.
func (m *Manager) Status(_ context.Context) (*workload.ServiceState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.runningLocked() {
		return &workload.ServiceState{Running: true, Health: workload.HealthUnknown}, nil
	}

	state := &workload.ServiceState{Running: false, Health: workload.HealthUnknown}
	if m.exitErr != nil {
		state.Message = m.exitErr.Error()
	}
	return state, nil
}

// Info returns the configured listen port.
func (m *Manager) Info(_ context.Context) (*workload.ServiceInfo, error) {
	return &workload.ServiceInfo{
		Name:  filepath.Base(m.cfg.Binary),
		Ports: []int{m.cfg.Port},
	}, nil
}

// TailLogs returns the last n captured output lines.
func (m *Manager) TailLogs(_ context.Context, lines int) ([]string, error) {
	return m.logs.tail(lines), nil
}

// runningLocked reports liveness. Callers hold m.mu.
func (m *Manager) runningLocked() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}
