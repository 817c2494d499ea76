package channel

import "context"

// PendingPut is a put that was queued by PutAsync.
type PendingPut[T any] struct {
	ch  *Channel[T]
	req *putRequest[T]
}

// Done returns a channel that is closed once the put has an outcome.
func (p *PendingPut[T]) Done() <-chan struct{} {
	return p.req.done
}

// Outcome returns the outcome and true once the put has resolved.
func (p *PendingPut[T]) Outcome() (Outcome, bool) {
	select {
	case <-p.req.done:
		return p.req.outcome, true
	default:
		return 0, false
	}
}

// Wait blocks until the put resolves or ctx is done. A done ctx does not
// withdraw the put; call Cancel for that.
func (p *PendingPut[T]) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.req.done:
		return p.req.outcome, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Cancel withdraws the put if it has not resolved yet, resolving it Rejected.
// It reports whether this call withdrew it.
func (p *PendingPut[T]) Cancel() bool {
	return p.ch.cancelPut(p.req, false)
}

// PendingTake is a take queued by TakeCancellable.
type PendingTake[T any] struct {
	ch  *Channel[T]
	req *takeRequest[T]
}

// Done returns a channel that is closed once the take has resolved.
func (p *PendingTake[T]) Done() <-chan struct{} {
	return p.req.done
}

// Result returns the taken value or error. ok is false while the take is
// still pending.
func (p *PendingTake[T]) Result() (value T, ok bool, err error) {
	select {
	case <-p.req.done:
		return p.req.value, true, p.req.err
	default:
		return value, false, nil
	}
}

// Wait blocks until the take resolves or ctx is done. A done ctx does not
// withdraw the take.
func (p *PendingTake[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.req.done:
		return p.req.value, p.req.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel withdraws the take, resolving it with ErrCanceled. Cancelling a take
// that already resolved is a no-op and returns false.
func (p *PendingTake[T]) Cancel() bool {
	return p.ch.cancelTake(p.req, ErrCanceled)
}
