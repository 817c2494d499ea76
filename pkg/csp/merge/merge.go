// Package merge forwards the values of several channels into one.
package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/logging"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Config holds configuration for MergeWithConfig.
type Config struct {
	// Name labels the merger in logs and metrics.
	Name string

	// Logger receives forwarder lifecycle events. Nil discards them.
	Logger logrus.FieldLogger

	// Metrics enables counting forwarded values.
	Metrics metrics.Config
}

// Merger owns the forwarders of a merge.
type Merger[T any] struct {
	out  *channel.Channel[T]
	done chan struct{}
}

// Out returns the merged channel.
func (m *Merger[T]) Out() *channel.Channel[T] {
	return m.out
}

// Done is closed once every forwarder has stopped.
func (m *Merger[T]) Done() <-chan struct{} {
	return m.done
}

// Merge returns a new unbuffered channel that receives every value taken from
// chans. Each input is forwarded by its own goroutine, which waits for the
// output to accept a value before taking the next one. A forwarder stops when
// its input is closed, when ctx is done or when the output rejects a value.
// The output channel is never closed by Merge.
func Merge[T any](ctx context.Context, chans ...*channel.Channel[T]) (*channel.Channel[T], error) {
	m, err := MergeWithConfig(ctx, Config{}, chans...)
	if err != nil {
		return nil, err
	}
	return m.out, nil
}

// MergeWithConfig is Merge with logging, metrics and a handle on the forwarders.
func MergeWithConfig[T any](ctx context.Context, config Config, chans ...*channel.Channel[T]) (*Merger[T], error) {
	for i, ch := range chans {
		if ch == nil {
			return nil, gferrors.NewValidationError("merge", fmt.Sprintf("channels[%d]", i), nil, "must not be nil")
		}
	}

	out, err := channel.NewWithConfigSafe[T](channel.Config{Name: config.Name, Metrics: config.Metrics})
	if err != nil {
		return nil, err
	}

	m := &Merger[T]{
		out:  out,
		done: make(chan struct{}),
	}

	logger := logging.Component(config.Logger, "merge", config.Name)
	registry := metrics.ForConfig(config.Metrics)
	name := config.Name
	if name == "" {
		name = "unnamed"
	}

	wg := conc.NewWaitGroup()
	for i, in := range chans {
		log := logger.WithField("input", i)
		wg.Go(func() {
			n, reason := forward(ctx, in, out, func() {
				if registry != nil {
					registry.MergeForwarded.WithLabelValues(name).Inc()
				}
			})
			log.WithFields(logrus.Fields{
				"forwarded": n,
				"reason":    reason,
			}).Debug("merge forwarder stopped")
		})
	}
	logger.WithField("inputs", len(chans)).Debug("merge started")

	go func() {
		wg.Wait()
		close(m.done)
	}()

	return m, nil
}

// forward moves values from in to out until one side stops. It returns the
// number of forwarded values and why it stopped.
func forward[T any](ctx context.Context, in, out *channel.Channel[T], onForward func()) (int, string) {
	n := 0
	for {
		v, err := in.Take(ctx)
		if errors.Is(err, channel.ErrClosed) {
			return n, "input closed"
		}
		if err != nil {
			return n, err.Error()
		}

		outcome, err := out.Put(ctx, v)
		if err != nil {
			return n, err.Error()
		}
		if outcome == channel.Rejected {
			return n, "output rejected"
		}
		n++
		onForward()
	}
}
