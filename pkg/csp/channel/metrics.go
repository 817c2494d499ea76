package channel

import (
	"time"

	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// observer records channel activity in a metrics.Registry. A nil observer
// records nothing.
type observer struct {
	registry *metrics.Registry
	name     string
}

func newObserver(name string, config metrics.Config) *observer {
	registry := metrics.ForConfig(config)
	if registry == nil {
		return nil
	}
	if name == "" {
		name = "unnamed"
	}
	return &observer{registry: registry, name: name}
}

func (o *observer) put(outcome Outcome) {
	if o == nil {
		return
	}
	o.registry.ChannelPuts.WithLabelValues(o.name, outcome.String()).Inc()
}

func (o *observer) take(result string) {
	if o == nil {
		return
	}
	o.registry.ChannelTakes.WithLabelValues(o.name, result).Inc()
}

func (o *observer) timeout(operation string) {
	if o == nil {
		return
	}
	o.registry.ChannelTimeouts.WithLabelValues(o.name, operation).Inc()
}

func (o *observer) closed() {
	if o == nil {
		return
	}
	o.registry.ChannelCloses.WithLabelValues(o.name).Inc()
}

func (o *observer) waited(operation string, d time.Duration) {
	if o == nil {
		return
	}
	o.registry.ChannelWaitDuration.WithLabelValues(o.name, operation).Observe(d.Seconds())
}

func (o *observer) gauges(pendingPuts, pendingTakes, bufferUsed int) {
	if o == nil {
		return
	}
	o.registry.ChannelPendingPuts.WithLabelValues(o.name).Set(float64(pendingPuts))
	o.registry.ChannelPendingTakes.WithLabelValues(o.name).Set(float64(pendingTakes))
	o.registry.ChannelBufferUsage.WithLabelValues(o.name).Set(float64(bufferUsed))
}

// EnableMetrics starts recording channel activity in the registry selected by config.
func (c *Channel[T]) EnableMetrics(config metrics.Config) error {
	config.Enabled = true
	obs := newObserver(c.config.Name, config)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.obs = obs
	c.updateGauges()
	return nil
}

// DisableMetrics stops recording channel activity.
func (c *Channel[T]) DisableMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.obs = nil
}

// MetricsEnabled reports whether channel activity is being recorded.
func (c *Channel[T]) MetricsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.obs != nil
}

var _ metrics.Instrumentable = (*Channel[int])(nil)
