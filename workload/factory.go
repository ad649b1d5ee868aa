package workload

import (
	"fmt"

	"github.com/kbukum/whisperbox/logger"
)

// ManagerFactory creates a Manager implementation from provider-specific config.
type ManagerFactory func(providerCfg any, log *logger.Logger) (Manager, error)

var factories = make(map[string]ManagerFactory)

// RegisterFactory registers a runtime provider factory.
func RegisterFactory(name string, f ManagerFactory) {
	factories[name] = f
}

// New creates a Manager for the named provider.
func New(provider string, providerCfg any, log *logger.Logger) (Manager, error) {
	l := log.WithComponent("workload")

	f, ok := factories[provider]
	if !ok {
		return nil, fmt.Errorf("workload: unsupported provider %q (not registered)", provider)
	}

	l.Info("initializing workload manager", map[string]interface{}{"provider": provider})
	return f(providerCfg, l)
}
