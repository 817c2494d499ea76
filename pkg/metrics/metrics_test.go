package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.ChannelPuts.WithLabelValues("c", "accepted").Inc()
	r.ChannelTakes.WithLabelValues("c", "value").Inc()
	r.ChannelTimeouts.WithLabelValues("c", "take").Inc()
	r.ChannelCloses.WithLabelValues("c").Inc()
	r.ChannelPendingPuts.WithLabelValues("c").Set(1)
	r.ChannelPendingTakes.WithLabelValues("c").Set(1)
	r.ChannelBufferUsage.WithLabelValues("c").Set(1)
	r.ChannelWaitDuration.WithLabelValues("c", "take").Observe(0.01)
	r.SelectResolutions.WithLabelValues("value").Inc()
	r.MergeForwarded.WithLabelValues("m").Inc()
	r.PubSubPublished.WithLabelValues("p", "t").Inc()
	r.PubSubDelivered.WithLabelValues("p", "t").Inc()
	r.PubSubSubscribers.WithLabelValues("p", "t").Set(1)
	r.RouterForwarded.WithLabelValues("r", "0").Inc()
	r.TimerFired.WithLabelValues("timeout").Inc()
	r.ThrottleTasks.WithLabelValues("t", "succeeded").Inc()
	r.ThrottleInFlight.WithLabelValues("t").Set(1)
	r.ThrottleTaskDuration.WithLabelValues("t").Observe(0.02)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 18)

	for _, mf := range families {
		assert.Contains(t, mf.GetName(), Namespace+"_")
	}
}

func TestForConfig(t *testing.T) {
	assert.Nil(t, ForConfig(Config{}))
	assert.Same(t, DefaultRegistry, ForConfig(Config{Enabled: true}))
	assert.Same(t, DefaultRegistry, ForConfig(DefaultConfig()))

	reg := prometheus.NewRegistry()
	r1 := ForConfig(Config{Enabled: true, Registry: reg})
	r2 := ForConfig(Config{Enabled: true, Registry: reg})
	assert.Same(t, r1, r2)
	assert.NotSame(t, DefaultRegistry, r1)

	r1.ChannelCloses.WithLabelValues("shared").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(r2.ChannelCloses.WithLabelValues("shared")))
}
