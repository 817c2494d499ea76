package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		Registry: prometheus.DefaultRegisterer,
	}
}

// Instrumentable is an interface for components that can be instrumented with metrics.
type Instrumentable interface {
	// EnableMetrics enables metrics collection for this component.
	EnableMetrics(config Config) error

	// DisableMetrics disables metrics collection for this component.
	DisableMetrics()

	// MetricsEnabled returns true if metrics are currently enabled.
	MetricsEnabled() bool
}

var (
	registriesMu sync.Mutex
	registries   = map[prometheus.Registerer]*Registry{}
)

// ForConfig returns the Registry for config, or nil when metrics are disabled.
// Registries are cached per Registerer so several components can share one
// Prometheus registry without duplicate registration.
func ForConfig(config Config) *Registry {
	if !config.Enabled {
		return nil
	}
	if config.Registry == nil || config.Registry == prometheus.DefaultRegisterer {
		return DefaultRegistry
	}

	registriesMu.Lock()
	defer registriesMu.Unlock()

	if r, ok := registries[config.Registry]; ok {
		return r
	}
	r := NewRegistry(config.Registry)
	registries[config.Registry] = r
	return r
}
