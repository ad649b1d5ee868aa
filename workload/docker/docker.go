package docker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/workload"
)

func init() {
	workload.RegisterFactory(workload.ProviderDocker, func(providerCfg any, log *logger.Logger) (workload.Manager, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("docker: expected *docker.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewManager(c, log)
	})
}

// Manager implements workload.Manager for one named inference service
// container using the Docker Engine SDK.
type Manager struct {
	client *client.Client
	cfg    *Config
	log    *logger.Logger
}

// NewManager creates a Docker runtime manager for the configured container.
func NewManager(cfg *Config, log *logger.Logger) (*Manager, error) {
	opts := []client.Opt{
		client.WithHost(cfg.Host),
	}
	if cfg.APIVersion != "" {
		opts = append(opts, client.WithVersion(cfg.APIVersion))
	} else {
		opts = append(opts, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker: create client: %w", err)
	}

	return &Manager{
		client: cli,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Start ensures the service container exists and is running. An existing
// stopped container is restarted; a missing one is created from the
// configured image.
func (m *Manager) Start(ctx context.Context) error {
	info, err := m.client.ContainerInspect(ctx, m.cfg.ContainerName)
	if err == nil {
		if info.State != nil && info.State.Running {
			m.log.Debug("container already running", map[string]interface{}{
				logger.FieldContainerID: shortID(info.ID),
			})
			return nil
		}
		m.log.Info("starting existing container", map[string]interface{}{
			logger.FieldContainerID: shortID(info.ID),
		})
		if err := m.client.ContainerStart(ctx, info.ID, container.StartOptions{}); err != nil {
			return fmt.Errorf("docker: start container: %w", err)
		}
		return nil
	}
	if !client.IsErrNotFound(err) {
		return fmt.Errorf("docker: inspect container: %w", err)
	}

	if err := m.ensureImage(ctx); err != nil {
		return fmt.Errorf("docker: pull image: %w", err)
	}

	containerCfg, hostCfg, networkCfg, platform := m.buildConfigs()

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, networkCfg, platform, m.cfg.ContainerName)
	if err != nil {
		return fmt.Errorf("docker: create container: %w", err)
	}

	if err := m.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Leave no half-created container behind.
		_ = m.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("docker: start container: %w", err)
	}

	m.log.Info("container started", map[string]interface{}{
		logger.FieldContainerID: shortID(resp.ID),
		"image":                 m.cfg.Image,
	})
	return nil
}

// Stop gracefully stops the service container. A missing or already
// stopped container is a no-op.
func (m *Manager) Stop(ctx context.Context) error {
	info, err := m.client.ContainerInspect(ctx, m.cfg.ContainerName)
	if err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("docker: inspect container: %w", err)
	}
	if info.State == nil || !info.State.Running {
		return nil
	}

	timeout := m.cfg.StopTimeout
	if err := m.client.ContainerStop(ctx, info.ID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("docker: stop container: %w", err)
	}

	m.log.Info("container stopped", map[string]interface{}{
		logger.FieldContainerID: shortID(info.ID),
	})
	return nil
}

// Status returns the observed state of the service container.
func (m *Manager) Status(ctx context.Context) (*workload.ServiceState, error) {
	info, err := m.client.ContainerInspect(ctx, m.cfg.ContainerName)
	if err != nil {
		if client.IsErrNotFound(err) {
			return &workload.ServiceState{
				Running: false,
				Health:  workload.HealthUnknown,
				Message: "container not created",
			}, nil
		}
		return nil, fmt.Errorf("docker: inspect container: %w", err)
	}

	state := &workload.ServiceState{
		Health: workload.HealthUnknown,
	}
	if info.State != nil {
		state.Running = info.State.Running
		state.Message = info.State.Status
		if info.State.Health != nil {
			switch info.State.Health.Status {
			case "healthy":
				state.Health = workload.HealthHealthy
			case "unhealthy":
				state.Health = workload.HealthUnhealthy
			default:
				state.Health = workload.HealthUnknown
			}
		}
		if info.State.ExitCode != 0 && !info.State.Running {
			state.Message = fmt.Sprintf("%s (exit code %d)", info.State.Status, info.State.ExitCode)
		}
	}
	return state, nil
}

// Info reports the host ports the container publishes. Ports are ordered by
// container port so the primary endpoint selection is deterministic.
func (m *Manager) Info(ctx context.Context) (*workload.ServiceInfo, error) {
	info, err := m.client.ContainerInspect(ctx, m.cfg.ContainerName)
	if err != nil {
		return nil, fmt.Errorf("docker: inspect container: %w", err)
	}

	var ports []int
	if info.NetworkSettings != nil {
		ports = publishedHostPorts(info.NetworkSettings.Ports)
	}

	return &workload.ServiceInfo{
		Name:  strings.TrimPrefix(info.Name, "/"),
		Ports: ports,
	}, nil
}

// TailLogs returns the last lines of container output for diagnostics.
func (m *Manager) TailLogs(ctx context.Context, lines int) ([]string, error) {
	logOpts := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	}
	if lines > 0 {
		logOpts.Tail = strconv.Itoa(lines)
	}

	reader, err := m.client.ContainerLogs(ctx, m.cfg.ContainerName, logOpts)
	if err != nil {
		return nil, fmt.Errorf("docker: get logs: %w", err)
	}
	defer reader.Close()

	var out []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		// Docker multiplexes stdout/stderr with an 8-byte header; strip it.
		if len(line) > 8 {
			line = line[8:]
		}
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}

// Close releases the Docker API client. The managed container is left as is.
func (m *Manager) Close() error {
	return m.client.Close()
}

// ensureImage pulls the service image if not present locally.
func (m *Manager) ensureImage(ctx context.Context) error {
	_, err := m.client.ImageInspect(ctx, m.cfg.Image)
	if err == nil {
		return nil
	}

	m.log.Info("pulling image", map[string]interface{}{"image": m.cfg.Image})

	pullOpts := image.PullOptions{}
	if m.cfg.Platform != "" {
		pullOpts.Platform = m.cfg.Platform
	}

	reader, err := m.client.ImagePull(ctx, m.cfg.Image, pullOpts)
	if err != nil {
		return fmt.Errorf("pull %s: %w", m.cfg.Image, err)
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return nil
}

// buildConfigs converts the manager config into Docker-specific configs.
func (m *Manager) buildConfigs() (*container.Config, *container.HostConfig, *network.NetworkingConfig, *ocispec.Platform) {
	env := make([]string, 0, len(m.cfg.Environment))
	for k, v := range m.cfg.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	containerPort := nat.Port(fmt.Sprintf("%d/tcp", m.cfg.ContainerPort))

	containerCfg := &container.Config{
		Image: m.cfg.Image,
		Env:   env,
		Labels: map[string]string{
			"managed-by": "whisperbox",
		},
		ExposedPorts: nat.PortSet{containerPort: struct{}{}},
	}

	// An empty HostPort asks Docker for a dynamically assigned port; the
	// endpoint resolver discovers the binding after start.
	binding := nat.PortBinding{}
	if m.cfg.HostPort > 0 {
		binding.HostPort = strconv.Itoa(m.cfg.HostPort)
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{containerPort: []nat.PortBinding{binding}},
	}

	if m.cfg.ModelCacheDir != "" {
		hostCfg.Binds = append(hostCfg.Binds,
			fmt.Sprintf("%s:/root/.cache/whisper:rw", m.cfg.ModelCacheDir))
	}

	if m.cfg.MemoryLimit != "" {
		if mem, err := workload.ParseMemory(m.cfg.MemoryLimit); err == nil {
			hostCfg.Memory = mem
		}
	}
	if m.cfg.CPULimit != "" {
		if cpu, err := workload.ParseCPU(m.cfg.CPULimit); err == nil {
			hostCfg.NanoCPUs = cpu
		}
	}

	var networkCfg *network.NetworkingConfig
	if m.cfg.Network != "" && m.cfg.Network != "host" && m.cfg.Network != "bridge" && m.cfg.Network != "none" {
		networkCfg = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				m.cfg.Network: {},
			},
		}
	}
	if m.cfg.Network == "host" {
		hostCfg.NetworkMode = "host"
	}

	var platformSpec *ocispec.Platform
	if m.cfg.Platform != "" {
		parts := strings.SplitN(m.cfg.Platform, "/", 2)
		if len(parts) == 2 {
			platformSpec = &ocispec.Platform{OS: parts[0], Architecture: parts[1]}
		}
	}

	return containerCfg, hostCfg, networkCfg, platformSpec
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
