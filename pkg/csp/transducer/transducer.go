// Package transducer transforms values on their way into a channel.
//
// An Xform maps one input to one output or filters it out. Xforms built by
// Map, Filter and Reduce are stateful: they count the values they have seen
// and pass the index to the user function, so a single Xform must not be
// shared between unrelated pipelines.
package transducer

import (
	"context"
	"sync"

	"github.com/vnykmshr/gocsp/pkg/csp/channel"
)

// Xform transforms in. ok is false when the value is filtered out.
type Xform[In, Out any] func(in In) (out Out, ok bool)

// Reduce folds every value into an accumulator and emits the accumulator
// after each step. fn receives the index of the value, starting at 0.
func Reduce[In, Acc any](fn func(acc Acc, in In, idx int) Acc, init Acc) Xform[In, Acc] {
	var (
		mu  sync.Mutex
		acc = init
		idx int
	)
	return func(in In) (Acc, bool) {
		mu.Lock()
		defer mu.Unlock()
		acc = fn(acc, in, idx)
		idx++
		return acc, true
	}
}

// Map transforms every value.
func Map[In, Out any](fn func(in In, idx int) Out) Xform[In, Out] {
	var (
		mu  sync.Mutex
		idx int
	)
	return func(in In) (Out, bool) {
		mu.Lock()
		i := idx
		idx++
		mu.Unlock()
		return fn(in, i), true
	}
}

// Filter keeps the values for which pred returns true. Filtered values still
// advance the index.
func Filter[T any](pred func(v T, idx int) bool) Xform[T, T] {
	var (
		mu  sync.Mutex
		idx int
	)
	return func(v T) (T, bool) {
		mu.Lock()
		i := idx
		idx++
		mu.Unlock()
		if !pred(v, i) {
			var zero T
			return zero, false
		}
		return v, true
	}
}

// Compose chains xforms of one type left to right, stopping at the first
// that filters the value out.
func Compose[T any](xforms ...Xform[T, T]) Xform[T, T] {
	return func(v T) (T, bool) {
		for _, xf := range xforms {
			var ok bool
			if v, ok = xf(v); !ok {
				var zero T
				return zero, false
			}
		}
		return v, true
	}
}

// Then chains two xforms that change the value type.
func Then[A, B, C any](first Xform[A, B], second Xform[B, C]) Xform[A, C] {
	return func(a A) (C, bool) {
		b, ok := first(a)
		if !ok {
			var zero C
			return zero, false
		}
		return second(b)
	}
}

// Writer puts transformed values on a channel.
type Writer[In, Out any] struct {
	ch *channel.Channel[Out]
	xf Xform[In, Out]
}

// Into decorates ch so that every value passes through xf before it is put.
func Into[In, Out any](ch *channel.Channel[Out], xf Xform[In, Out]) *Writer[In, Out] {
	return &Writer[In, Out]{ch: ch, xf: xf}
}

// Put transforms v and puts the result. A value filtered out by the xform
// returns Rejected without touching the channel.
func (w *Writer[In, Out]) Put(ctx context.Context, v In, opts ...channel.OpOption) (channel.Outcome, error) {
	out, ok := w.xf(v)
	if !ok {
		return channel.Rejected, nil
	}
	return w.ch.Put(ctx, out, opts...)
}

// PutAsync transforms v and queues the result. It returns nil when the value
// was filtered out.
func (w *Writer[In, Out]) PutAsync(v In) *channel.PendingPut[Out] {
	out, ok := w.xf(v)
	if !ok {
		return nil
	}
	return w.ch.PutAsync(out)
}

// Channel returns the decorated channel.
func (w *Writer[In, Out]) Channel() *channel.Channel[Out] {
	return w.ch
}
