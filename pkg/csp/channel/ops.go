package channel

import (
	"context"
	"time"

	"github.com/vnykmshr/gocsp/pkg/common/delay"
	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
)

// OpOption customizes a single Put or Take.
type OpOption func(*opOptions)

type opOptions struct {
	timeout time.Duration
}

// WithTimeout bounds how long the operation may stay queued. It overrides
// Config.PutTimeout or Config.TakeTimeout; 0 disables the timeout.
func WithTimeout(d time.Duration) OpOption {
	return func(o *opOptions) {
		o.timeout = d
	}
}

func buildOptions(timeout time.Duration, opts []OpOption) opOptions {
	o := opOptions{timeout: timeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout < 0 {
		o.timeout = 0
	}
	return o
}

// effects collects callbacks that must run after the lock is released.
type effects[T any] struct {
	dropped   []T
	listeners []func()
}

func (c *Channel[T]) run(fx effects[T]) {
	if c.config.OnDrop != nil {
		for _, v := range fx.dropped {
			c.config.OnDrop(v)
		}
	}
	for _, fn := range fx.listeners {
		fn()
	}
}

// Put offers value to the channel and waits until it is accepted, dropped or
// rejected. Buffered puts return Accepted as soon as they are admitted.
//
// When the put times out or ctx is done while it is still queued, the request
// is withdrawn and Put returns Rejected with a *errors.TimeoutError or ctx.Err().
// If the put resolved first, its real outcome is returned instead.
func (c *Channel[T]) Put(ctx context.Context, value T, opts ...OpOption) (Outcome, error) {
	o := buildOptions(c.config.PutTimeout, opts)

	req := c.submitPut(value)
	select {
	case <-req.done:
		return req.outcome, nil
	default:
	}

	var expired <-chan struct{}
	if o.timeout > 0 {
		dl := delay.New(o.timeout)
		defer dl.Cancel()
		expired = dl.Done()
	}

	select {
	case <-req.done:
		return req.outcome, nil
	case <-expired:
		if c.cancelPut(req, true) {
			return Rejected, gferrors.NewTimeoutError("channel", "put", o.timeout)
		}
		return req.outcome, nil
	case <-ctx.Done():
		if c.cancelPut(req, false) {
			return Rejected, ctx.Err()
		}
		return req.outcome, nil
	}
}

// PutAsync enqueues value exactly like Put but returns immediately. Values
// put asynchronously on the same channel are matched in call order.
func (c *Channel[T]) PutAsync(value T) *PendingPut[T] {
	return &PendingPut[T]{ch: c, req: c.submitPut(value)}
}

// SPut hands value to a waiting take. It never buffers and never blocks;
// false means no take was waiting and the channel is unchanged.
func (c *Channel[T]) SPut(value T) bool {
	if c.isCloseValue(value) {
		_ = c.Close()
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != open {
		return false
	}
	take, ok := c.takes.pop()
	if !ok {
		return false
	}
	c.putSeq++
	c.deliver(take, value)
	c.stats.PutCount++
	c.stats.LastPutTime = time.Now()
	c.obs.put(Accepted)
	c.updateGauges()
	return true
}

func (c *Channel[T]) submitPut(value T) *putRequest[T] {
	req := newPutRequest(value)
	if c.isCloseValue(value) {
		_ = c.Close()
		c.mu.Lock()
		req.resolve(Rejected)
		c.stats.RejectedCount++
		c.obs.put(Rejected)
		c.mu.Unlock()
		return req
	}

	fx := c.enqueuePut(req)
	c.run(fx)
	return req
}

func (c *Channel[T]) enqueuePut(req *putRequest[T]) effects[T] {
	var fx effects[T]

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.updateGauges()

	if c.state != open {
		req.resolve(Rejected)
		c.stats.RejectedCount++
		c.obs.put(Rejected)
		return fx
	}

	if take, ok := c.takes.pop(); ok {
		c.stamp(req)
		c.deliver(take, req.value)
		c.accept(req)
		return fx
	}

	if c.bufferUsed < c.config.Capacity {
		c.stamp(req)
		c.admit(req)
		c.puts.push(req)
		fx.listeners = c.drainListeners()
		return fx
	}

	switch c.config.Mode {
	case Dropping:
		req.resolve(Dropped)
		c.stats.DroppedCount++
		c.obs.put(Dropped)
		fx.dropped = append(fx.dropped, req.value)
		return fx

	case Sliding:
		if old, ok := c.puts.pop(); ok {
			if old.admitted {
				c.bufferUsed--
			}
			if old.resolve(Dropped) {
				c.obs.put(Dropped)
			}
			c.stats.EvictedCount++
			fx.dropped = append(fx.dropped, old.value)
		}
		c.stamp(req)
		c.admit(req)
		c.puts.push(req)
		fx.listeners = c.drainListeners()
		return fx

	default:
		c.stamp(req)
		req.queuedAt = time.Now()
		c.puts.push(req)
		c.stats.BlockedPuts++
		fx.listeners = c.drainListeners()
		return fx
	}
}

func (c *Channel[T]) stamp(req *putRequest[T]) {
	c.putSeq++
	req.seq = c.putSeq
	req.ticket = arrivals.Add(1)
}

// admit places req in a free buffer slot. Callers must hold the lock.
func (c *Channel[T]) admit(req *putRequest[T]) {
	req.admitted = true
	c.bufferUsed++
	c.accept(req)
}

func (c *Channel[T]) accept(req *putRequest[T]) {
	if !req.resolve(Accepted) {
		return
	}
	c.stats.PutCount++
	c.stats.LastPutTime = time.Now()
	c.obs.put(Accepted)
	if !req.queuedAt.IsZero() {
		c.obs.waited("put", time.Since(req.queuedAt))
	}
}

func (c *Channel[T]) deliver(take *takeRequest[T], value T) {
	if !take.resolve(value, nil) {
		return
	}
	c.stats.TakeCount++
	c.stats.LastTakeTime = time.Now()
	c.obs.take("value")
	if !take.queuedAt.IsZero() {
		c.obs.waited("take", time.Since(take.queuedAt))
	}
}

// cancelPut withdraws req if it is still unresolved.
func (c *Channel[T]) cancelPut(req *putRequest[T], timedOut bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.resolved {
		return false
	}
	c.puts.remove(req)
	req.resolve(Rejected)
	if timedOut {
		c.stats.TimeoutCount++
		c.obs.timeout("put")
	}
	c.obs.put(Rejected)
	c.updateGauges()
	return true
}

// Take waits for the next value. It returns ErrClosed once the channel is
// closed and every queued value has been handed out.
func (c *Channel[T]) Take(ctx context.Context, opts ...OpOption) (T, error) {
	o := buildOptions(c.config.TakeTimeout, opts)

	req := c.submitTake()
	select {
	case <-req.done:
		return req.value, req.err
	default:
	}

	var expired <-chan struct{}
	if o.timeout > 0 {
		dl := delay.New(o.timeout)
		defer dl.Cancel()
		expired = dl.Done()
	}

	select {
	case <-req.done:
		return req.value, req.err
	case <-expired:
		if c.cancelTake(req, gferrors.NewTimeoutError("channel", "take", o.timeout)) {
			var zero T
			return zero, req.err
		}
		return req.value, req.err
	case <-ctx.Done():
		if c.cancelTake(req, ctx.Err()) {
			var zero T
			return zero, req.err
		}
		return req.value, req.err
	}
}

// TakeCancellable queues a take and returns a handle to it instead of blocking.
func (c *Channel[T]) TakeCancellable() *PendingTake[T] {
	return &PendingTake[T]{ch: c, req: c.submitTake()}
}

// STake takes a value only if one is already queued. It returns
// (zero, false, nil) when there is no data and ErrClosed when the channel is
// closed and empty.
func (c *Channel[T]) STake() (T, bool, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	put, ok := c.puts.pop()
	if !ok {
		if c.state != open {
			return zero, false, ErrClosed
		}
		return zero, false, nil
	}
	c.takeSeq++
	c.consume(put)
	c.stats.TakeCount++
	c.stats.LastTakeTime = time.Now()
	c.obs.take("value")
	c.updateGauges()
	return put.value, true, nil
}

func (c *Channel[T]) submitTake() *takeRequest[T] {
	req := newTakeRequest[T]()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.updateGauges()

	if put, ok := c.puts.pop(); ok {
		c.takeSeq++
		c.consume(put)
		c.deliver(req, put.value)
		return req
	}

	if c.state != open {
		var zero T
		req.resolve(zero, ErrClosed)
		c.obs.take("closed")
		return req
	}

	c.takeSeq++
	req.seq = c.takeSeq
	req.queuedAt = time.Now()
	c.takes.push(req)
	c.stats.BlockedTakes++
	return req
}

// consume settles a put that was just popped for a take: it frees the
// buffer slot and backfills it, or accepts the blocked put directly.
func (c *Channel[T]) consume(put *putRequest[T]) {
	if !put.admitted {
		c.accept(put)
		return
	}
	c.bufferUsed--
	if c.state == open {
		c.backfill()
	}
}

// backfill admits the oldest waiting puts into free buffer slots.
func (c *Channel[T]) backfill() {
	if c.bufferUsed >= c.config.Capacity {
		return
	}
	c.puts.each(func(put *putRequest[T]) bool {
		if !put.admitted {
			c.admit(put)
		}
		return c.bufferUsed < c.config.Capacity
	})
}

func (c *Channel[T]) cancelTake(req *takeRequest[T], cause error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if req.resolved {
		return false
	}
	c.takes.remove(req)
	var zero T
	req.resolve(zero, cause)
	if gferrors.IsTimeout(cause) {
		c.stats.TimeoutCount++
		c.obs.timeout("take")
		c.obs.take("timeout")
	} else {
		c.obs.take("canceled")
	}
	c.updateGauges()
	return true
}

// Close closes the channel. Queued takes are paired with queued puts or
// resolved with ErrClosed, remaining puts are rejected and the buffer is
// discarded. OnClosing runs once, before the queues are drained. Close is
// idempotent and always returns nil.
func (c *Channel[T]) Close() error {
	c.mu.Lock()
	if c.state != open {
		c.mu.Unlock()
		return nil
	}
	c.state = closing
	c.mu.Unlock()

	if c.config.OnClosing != nil {
		c.config.OnClosing()
	}

	c.mu.Lock()
	var zero T
	for {
		take, ok := c.takes.pop()
		if !ok {
			break
		}
		put, ok := c.puts.pop()
		if !ok {
			take.resolve(zero, ErrClosed)
			c.obs.take("closed")
			continue
		}
		if !put.admitted {
			c.accept(put)
		}
		c.deliver(take, put.value)
	}
	for {
		put, ok := c.puts.pop()
		if !ok {
			break
		}
		if put.resolve(Rejected) {
			c.stats.RejectedCount++
			c.obs.put(Rejected)
		}
	}
	c.bufferUsed = 0
	c.state = closed
	c.obs.closed()
	c.updateGauges()
	listeners := c.drainListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// OnPut registers fn to run once, the next time a value is queued on the
// channel or the channel closes. If a value is already queued, or the channel
// is already closed, fn runs immediately. The returned stop function
// unregisters fn if it has not run yet.
func (c *Channel[T]) OnPut(fn func()) (stop func()) {
	c.mu.Lock()
	if c.puts.len() > 0 || c.state != open {
		c.mu.Unlock()
		fn()
		return func() {}
	}
	c.listenerSeq++
	id := c.listenerSeq
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// OldestPutTicket returns the arrival ticket of the oldest queued put. Tickets
// are ordered across all channels in the process.
func (c *Channel[T]) OldestPutTicket() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	put, ok := c.puts.peek()
	if !ok {
		return 0, false
	}
	return put.ticket, true
}

func (c *Channel[T]) drainListeners() []func() {
	if len(c.listeners) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(c.listeners))
	for id, fn := range c.listeners {
		fns = append(fns, fn)
		delete(c.listeners, id)
	}
	return fns
}

func (c *Channel[T]) updateGauges() {
	c.obs.gauges(c.puts.len(), c.takes.len(), c.bufferUsed)
}
