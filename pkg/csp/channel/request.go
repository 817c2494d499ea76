package channel

import "time"

type putRequest[T any] struct {
	seq       uint64
	ticket    uint64
	value     T
	admitted  bool
	cancelled bool
	resolved  bool
	outcome   Outcome
	queuedAt  time.Time
	done      chan struct{}
}

func newPutRequest[T any](value T) *putRequest[T] {
	return &putRequest[T]{value: value, done: make(chan struct{})}
}

func (r *putRequest[T]) isCancelled() bool { return r.cancelled }
func (r *putRequest[T]) markCancelled()    { r.cancelled = true }

// resolve completes the request once; later calls are no-ops.
// Callers must hold the channel lock.
func (r *putRequest[T]) resolve(outcome Outcome) bool {
	if r.resolved {
		return false
	}
	r.resolved = true
	r.outcome = outcome
	close(r.done)
	return true
}

type takeRequest[T any] struct {
	seq       uint64
	cancelled bool
	resolved  bool
	value     T
	err       error
	queuedAt  time.Time
	done      chan struct{}
}

func newTakeRequest[T any]() *takeRequest[T] {
	return &takeRequest[T]{done: make(chan struct{})}
}

func (r *takeRequest[T]) isCancelled() bool { return r.cancelled }
func (r *takeRequest[T]) markCancelled()    { r.cancelled = true }

func (r *takeRequest[T]) resolve(value T, err error) bool {
	if r.resolved {
		return false
	}
	r.resolved = true
	r.value = value
	r.err = err
	close(r.done)
	return true
}
