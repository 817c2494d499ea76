// Package alts waits on several channels at once and takes from whichever
// received its oldest value first.
package alts

import (
	"context"
	"errors"
	"fmt"
	"time"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Config holds configuration for SelectWithConfig.
type Config struct {
	// Metrics enables counting select resolutions by result.
	Metrics metrics.Config
}

// Select blocks until one of chans holds a value and takes it. When several
// channels hold values, the one whose oldest value was put first wins; ties
// go to the channel listed first. The winning channel is returned with the
// value.
//
// If no channel holds a value and at least one is closed, Select returns
// channel.ErrClosed together with the first closed channel, even while other
// channels are still open.
func Select[T any](ctx context.Context, chans ...*channel.Channel[T]) (T, *channel.Channel[T], error) {
	return SelectWithConfig(ctx, Config{}, chans...)
}

// SelectWithConfig is Select with metrics.
func SelectWithConfig[T any](ctx context.Context, config Config, chans ...*channel.Channel[T]) (T, *channel.Channel[T], error) {
	var zero T
	if err := validate(chans); err != nil {
		return zero, nil, err
	}

	registry := metrics.ForConfig(config.Metrics)
	v, ch, err := run(ctx, chans)
	if registry != nil {
		registry.SelectResolutions.WithLabelValues(result(err)).Inc()
	}
	return v, ch, err
}

// SelectTimeout is Select bounded by d. On expiry it returns a
// *errors.TimeoutError.
func SelectTimeout[T any](ctx context.Context, d time.Duration, chans ...*channel.Channel[T]) (T, *channel.Channel[T], error) {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	v, ch, err := Select(tctx, chans...)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return v, ch, gferrors.NewTimeoutError("alts", "select", d)
	}
	return v, ch, err
}

func validate[T any](chans []*channel.Channel[T]) error {
	if len(chans) == 0 {
		return gferrors.NewValidationError("alts", "channels", 0, "at least one channel is required")
	}
	for i, ch := range chans {
		if ch == nil {
			return gferrors.NewValidationError("alts", fmt.Sprintf("channels[%d]", i), nil, "must not be nil")
		}
	}
	return nil
}

func run[T any](ctx context.Context, chans []*channel.Channel[T]) (T, *channel.Channel[T], error) {
	var zero T
	for {
		if winner := oldest(chans); winner != nil {
			if v, ok, _ := winner.STake(); ok {
				return v, winner, nil
			}
			// another taker got there first
			continue
		}
		for _, ch := range chans {
			if ch.IsClosed() {
				return zero, ch, channel.ErrClosed
			}
		}
		if err := ctx.Err(); err != nil {
			return zero, nil, err
		}
		wait(ctx, chans)
	}
}

// oldest returns the channel whose oldest queued put has the lowest arrival
// ticket, or nil if no channel holds a put.
func oldest[T any](chans []*channel.Channel[T]) *channel.Channel[T] {
	var (
		winner *channel.Channel[T]
		best   uint64
	)
	for _, ch := range chans {
		ticket, ok := ch.OldestPutTicket()
		if !ok {
			continue
		}
		if winner == nil || ticket < best {
			winner, best = ch, ticket
		}
	}
	return winner
}

// wait blocks until any channel receives a put or closes, or ctx is done.
// Every listener is removed before it returns.
func wait[T any](ctx context.Context, chans []*channel.Channel[T]) {
	ready := make(chan struct{}, 1)
	signal := func() {
		select {
		case ready <- struct{}{}:
		default:
		}
	}

	stops := make([]func(), 0, len(chans))
	for _, ch := range chans {
		stops = append(stops, ch.OnPut(signal))
	}
	defer func() {
		for _, stop := range stops {
			stop()
		}
	}()

	select {
	case <-ready:
	case <-ctx.Done():
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return "value"
	case errors.Is(err, gferrors.ErrClosed):
		return "closed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "canceled"
	}
}
