// Package timer provides channels that receive a value after a delay or on a
// cron schedule, so that deadlines and ticks can be selected alongside data
// channels.
package timer

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/gocsp/pkg/common/delay"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// TimeoutMessage is the value put on channels created by Timeout.
const TimeoutMessage = "timeout"

// Config holds configuration shared by the timer constructors.
type Config struct {
	// Name labels the channel in logs and metrics.
	Name string

	// Logger receives lifecycle events of cron channels. Nil discards them.
	Logger logrus.FieldLogger

	// Metrics enables counting timer activations.
	Metrics metrics.Config
}

// Timeout returns an unbuffered channel that receives "timeout" once, after d.
// The channel stays open afterwards; closing it before d elapses cancels the
// delay.
func Timeout(d time.Duration) *channel.Channel[string] {
	return TimeoutValueWithConfig(Config{}, d, TimeoutMessage)
}

// TimeoutRange is Timeout with a delay picked uniformly in [min, max).
// Negative bounds are clamped to 0; min greater than max is an error.
func TimeoutRange(min, max time.Duration) (*channel.Channel[string], error) {
	dl, err := delay.NewRandom(min, max)
	if err != nil {
		return nil, err
	}
	return fire(Config{}, dl, TimeoutMessage), nil
}

// TimeoutValue is Timeout for any element type: the channel receives v once, after d.
func TimeoutValue[T any](d time.Duration, v T) *channel.Channel[T] {
	return TimeoutValueWithConfig(Config{}, d, v)
}

// TimeoutValueWithConfig is TimeoutValue with metrics.
func TimeoutValueWithConfig[T any](config Config, d time.Duration, v T) *channel.Channel[T] {
	return fire(config, delay.New(d), v)
}

// fire returns a channel that receives v once dl elapses. Closing the channel
// first cancels dl.
func fire[T any](config Config, dl *delay.Delay, v T) *channel.Channel[T] {
	stop := make(chan struct{})

	ch := channel.NewWithConfig[T](channel.Config{
		Name:    config.Name,
		Metrics: config.Metrics,
		OnClosing: func() {
			dl.Cancel()
			close(stop)
		},
	})
	registry := metrics.ForConfig(config.Metrics)

	go func() {
		select {
		case <-dl.Done():
			ch.PutAsync(v)
			if registry != nil {
				registry.TimerFired.WithLabelValues("timeout").Inc()
			}
		case <-stop:
		}
	}()
	return ch
}
