/*
Package gocsp provides CSP-style channels and coordination tools for Go programs.

Channels (pkg/csp/channel):
  - Channel: FIFO put/take matching with default, dropping and sliding buffers
  - Outcomes for every put, per-operation timeouts and cancellable requests
  - Non-blocking SPut/STake, close hooks and close values

Coordination (pkg/csp):
  - alts: wait on several channels and take the oldest value
  - merge: forward many channels into one
  - pubsub: topic-based broadcast to subscriber channels
  - router: rule-based forwarding from one channel to many
  - throttle: run tasks with bounded concurrency
  - timer: timeout and cron channels
  - transducer: transform values on their way into a channel

Supporting packages (pkg/common, pkg/metrics):
  - errors: validation, operation and timeout errors
  - delay: cancellable delays
  - logging: logrus loggers for background loops
  - metrics: Prometheus instrumentation

Example usage:

	import (
		"github.com/vnykmshr/gocsp/pkg/csp/alts"
		"github.com/vnykmshr/gocsp/pkg/csp/channel"
		"github.com/vnykmshr/gocsp/pkg/csp/timer"
	)

	jobs := channel.New[string](10)
	deadline := timer.TimeoutValue(time.Second, "")

	v, from, err := alts.Select(ctx, jobs, deadline)
	if from == deadline {
		// gave up waiting
	}
*/
package gocsp
