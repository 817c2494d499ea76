/*
Package channel implements CSP channels with explicit put and take queues.

A Channel pairs producers (puts) with consumers (takes) in strict FIFO order.
Unlike Go's built-in channels, every put reports an Outcome, buffered channels
can drop or slide instead of blocking, queued operations can time out or be
cancelled without disturbing the queue, and close runs a hook before the
queues are drained.

Modes:

Default mode queues a put once the buffer is full and blocks the producer
until a take frees a slot. The oldest waiting put is admitted first.

	ch := channel.New[int](2)
	outcome, err := ch.Put(ctx, 1) // Accepted once admitted or handed off

Dropping mode discards the incoming value when the buffer is full:

	ch, err := channel.NewSafe[int](1, channel.Dropping)
	ch.Put(ctx, 1) // Accepted
	ch.Put(ctx, 2) // Dropped

Sliding mode evicts the oldest buffered value and admits the new one:

	ch, err := channel.NewSafe[int](1, channel.Sliding)
	ch.Put(ctx, 1) // Accepted
	ch.Put(ctx, 2) // Accepted, 1 is evicted

Timeouts:

A put or take can be bounded with WithTimeout or the PutTimeout/TakeTimeout
config defaults. An expired operation is withdrawn from its queue and returns a
*errors.TimeoutError whose Code is 408:

	v, err := ch.Take(ctx, channel.WithTimeout(5*time.Millisecond))
	if errors.Is(err, gferrors.ErrTimeout) {
		// nothing was taken off the channel
	}

Non-blocking operations:

SPut only succeeds when a take is already waiting, and STake only when a put
is already queued. Neither changes the channel when it fails.

Asynchronous operations:

PutAsync and TakeCancellable queue a request and return a handle instead of
blocking. Handles expose Done, Wait and an idempotent Cancel; a cancelled take
resolves with ErrCanceled.

Closing:

Close moves the channel to closing, runs OnClosing, pairs queued takes with
queued puts (or resolves them with ErrClosed), rejects every remaining put and
finally marks the channel closed. Putting a value for which IsCloseValue
returns true has the same effect.

Metrics:

Set Config.Metrics, or call EnableMetrics, to export put outcomes, take
results, timeouts, queue depths and wait times to Prometheus.
*/
package channel
