// Package metrics provides Prometheus instrumentation for gocsp components.
//
// # Overview
//
// The metrics package provides instrumentation for:
//   - Channel operations (puts by outcome, takes by result, timeouts, closes)
//   - Channel state (pending puts/takes, buffer usage, blocked wait time)
//   - Coordination utilities (select, merge, pubsub, router, timer channels)
//   - Throttled task execution (status, in-flight tasks, duration)
//
// # Quick Start
//
// Enable metrics through the component configuration:
//
//	ch := channel.NewWithConfig[int](channel.Config{
//		Capacity: 16,
//		Name:     "orders",
//		Metrics:  metrics.Config{Enabled: true},
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation. ForConfig caches one Registry
// per Prometheus registerer, so any number of components may share it:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
// # Available Metrics
//
//   - gocsp_channel_puts_total{channel_name,outcome}: accepted, rejected, dropped, evicted
//   - gocsp_channel_takes_total{channel_name,result}: value, closed, canceled
//   - gocsp_channel_timeouts_total{channel_name,operation}
//   - gocsp_channel_closes_total{channel_name}
//   - gocsp_channel_pending_puts{channel_name}
//   - gocsp_channel_pending_takes{channel_name}
//   - gocsp_channel_buffer_usage{channel_name}
//   - gocsp_channel_wait_duration_seconds{channel_name,operation}
//   - gocsp_select_resolutions_total{result}
//   - gocsp_merge_forwarded_total{merge_name}
//   - gocsp_pubsub_published_total{pubsub_name,topic}
//   - gocsp_pubsub_delivered_total{pubsub_name,topic}
//   - gocsp_pubsub_subscribers{pubsub_name,topic}
//   - gocsp_router_forwarded_total{router_name,route}
//   - gocsp_timer_fired_total{kind}
//   - gocsp_throttle_tasks_total{throttle_name,status}
//   - gocsp_throttle_in_flight{throttle_name}
//   - gocsp_throttle_task_duration_seconds{throttle_name}
//
// # Performance
//
// Metrics are updated only when operations occur; there are no background
// goroutines. A component with metrics disabled pays a single nil check.
package metrics
