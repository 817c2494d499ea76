// Package delay provides cancellable, optionally randomized time delays.
//
// A Delay is the timer collaborator used by channel timeouts and timer
// channels: it completes once after its duration unless cancelled first,
// and never leaks a goroutine either way.
package delay

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/vnykmshr/gocsp/pkg/common/validation"
)

// Delay is a one-shot cancellable delay.
type Delay struct {
	timer *time.Timer
	done  chan struct{}
}

// New starts a delay of d. Non-positive durations complete as soon as the
// runtime schedules the timer.
func New(d time.Duration) *Delay {
	if d < 0 {
		d = 0
	}
	dl := &Delay{done: make(chan struct{})}
	dl.timer = time.AfterFunc(d, func() {
		close(dl.done)
	})
	return dl
}

// NewRandom starts a delay whose duration is picked by Random.
func NewRandom(min, max time.Duration) (*Delay, error) {
	d, err := Random(min, max)
	if err != nil {
		return nil, err
	}
	return New(d), nil
}

// Random picks a duration uniformly in [min, max). Negative bounds are
// clamped to 0 and equal bounds return min.
func Random(min, max time.Duration) (time.Duration, error) {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if err := validation.ValidateDurationRange("delay", "time", min, max); err != nil {
		return 0, err
	}
	if min == max {
		return min, nil
	}
	return min + rand.N(max-min), nil
}

// Done returns a channel that is closed when the delay elapses. It is never
// closed if the delay was cancelled first.
func (dl *Delay) Done() <-chan struct{} {
	return dl.done
}

// Cancel stops the delay. It returns true if the call prevented the delay
// from completing, false if it had already elapsed or was already cancelled.
func (dl *Delay) Cancel() bool {
	return dl.timer.Stop()
}

// Sleep blocks for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	dl := New(d)
	select {
	case <-dl.Done():
		return nil
	case <-ctx.Done():
		dl.Cancel()
		return ctx.Err()
	}
}

// IsCanceled reports whether ctx is already done, by cancellation or deadline.
// It never blocks.
func IsCanceled(ctx context.Context) bool {
	return ctx.Err() != nil
}
