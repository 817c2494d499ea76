package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace is the Prometheus namespace of every gocsp metric.
const Namespace = "gocsp"

// Registry holds all metric instances for gocsp components.
type Registry struct {
	// Channel Metrics
	ChannelPuts         *prometheus.CounterVec
	ChannelTakes        *prometheus.CounterVec
	ChannelTimeouts     *prometheus.CounterVec
	ChannelCloses       *prometheus.CounterVec
	ChannelPendingPuts  *prometheus.GaugeVec
	ChannelPendingTakes *prometheus.GaugeVec
	ChannelBufferUsage  *prometheus.GaugeVec
	ChannelWaitDuration *prometheus.HistogramVec

	// Coordination Metrics
	SelectResolutions *prometheus.CounterVec
	MergeForwarded    *prometheus.CounterVec
	PubSubPublished   *prometheus.CounterVec
	PubSubDelivered   *prometheus.CounterVec
	PubSubSubscribers *prometheus.GaugeVec
	RouterForwarded   *prometheus.CounterVec
	TimerFired        *prometheus.CounterVec

	// Throttle Metrics
	ThrottleTasks        *prometheus.CounterVec
	ThrottleInFlight     *prometheus.GaugeVec
	ThrottleTaskDuration *prometheus.HistogramVec
}

// DefaultRegistry is the default metrics registry used by gocsp components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Channel Metrics
		ChannelPuts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "puts_total",
				Help:      "Total number of put operations by outcome",
			},
			[]string{"channel_name", "outcome"},
		),

		ChannelTakes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "takes_total",
				Help:      "Total number of take operations by result",
			},
			[]string{"channel_name", "result"},
		),

		ChannelTimeouts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "timeouts_total",
				Help:      "Total number of put/take operations that timed out",
			},
			[]string{"channel_name", "operation"},
		),

		ChannelCloses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "closes_total",
				Help:      "Total number of channel closes",
			},
			[]string{"channel_name"},
		),

		ChannelPendingPuts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "pending_puts",
				Help:      "Number of queued put requests, buffered ones included",
			},
			[]string{"channel_name"},
		),

		ChannelPendingTakes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "pending_takes",
				Help:      "Number of queued take requests",
			},
			[]string{"channel_name"},
		),

		ChannelBufferUsage: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "buffer_usage",
				Help:      "Number of buffer slots currently in use",
			},
			[]string{"channel_name"},
		),

		ChannelWaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "channel",
				Name:      "wait_duration_seconds",
				Help:      "Time blocked operations spent waiting for a match",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"channel_name", "operation"},
		),

		// Coordination Metrics
		SelectResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "select",
				Name:      "resolutions_total",
				Help:      "Total number of select resolutions by result",
			},
			[]string{"result"},
		),

		MergeForwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "merge",
				Name:      "forwarded_total",
				Help:      "Total number of values forwarded into merged channels",
			},
			[]string{"merge_name"},
		),

		PubSubPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "pubsub",
				Name:      "published_total",
				Help:      "Total number of values published per topic",
			},
			[]string{"pubsub_name", "topic"},
		),

		PubSubDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "pubsub",
				Name:      "delivered_total",
				Help:      "Total number of deliveries to subscriber channels per topic",
			},
			[]string{"pubsub_name", "topic"},
		),

		PubSubSubscribers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "pubsub",
				Name:      "subscribers",
				Help:      "Number of subscriber channels per topic",
			},
			[]string{"pubsub_name", "topic"},
		),

		RouterForwarded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "router",
				Name:      "forwarded_total",
				Help:      "Total number of values forwarded per route",
			},
			[]string{"router_name", "route"},
		),

		TimerFired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "timer",
				Name:      "fired_total",
				Help:      "Total number of timer channel activations",
			},
			[]string{"kind"},
		),

		// Throttle Metrics
		ThrottleTasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "throttle",
				Name:      "tasks_total",
				Help:      "Total number of throttled tasks by status",
			},
			[]string{"throttle_name", "status"},
		),

		ThrottleInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Subsystem: "throttle",
				Name:      "in_flight",
				Help:      "Number of throttled tasks currently running",
			},
			[]string{"throttle_name"},
		),

		ThrottleTaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "throttle",
				Name:      "task_duration_seconds",
				Help:      "Time spent executing throttled tasks",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"throttle_name"},
		),
	}
}
