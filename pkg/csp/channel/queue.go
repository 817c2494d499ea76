package channel

// request is a queued put or take. Cancelled requests stay in the queue and
// are skipped when they reach the front, so cancelling is O(1).
type request interface {
	isCancelled() bool
	markCancelled()
}

// waitq is a FIFO of pending requests.
type waitq[E request] struct {
	items []E
	head  int
	live  int
}

func (q *waitq[E]) push(e E) {
	q.items = append(q.items, e)
	q.live++
}

// peek returns the oldest live request without removing it.
func (q *waitq[E]) peek() (E, bool) {
	q.skipCancelled()
	if q.head == len(q.items) {
		var zero E
		return zero, false
	}
	return q.items[q.head], true
}

// pop removes and returns the oldest live request.
func (q *waitq[E]) pop() (E, bool) {
	e, ok := q.peek()
	if !ok {
		return e, false
	}
	var zero E
	q.items[q.head] = zero
	q.head++
	q.live--
	q.compact()
	return e, true
}

// remove marks e cancelled. It must currently be queued and live.
func (q *waitq[E]) remove(e E) {
	if e.isCancelled() {
		return
	}
	e.markCancelled()
	q.live--
}

// each calls fn for every live request in arrival order until fn returns false.
func (q *waitq[E]) each(fn func(E) bool) {
	for i := q.head; i < len(q.items); i++ {
		if q.items[i].isCancelled() {
			continue
		}
		if !fn(q.items[i]) {
			return
		}
	}
}

func (q *waitq[E]) len() int {
	return q.live
}

func (q *waitq[E]) skipCancelled() {
	var zero E
	for q.head < len(q.items) && q.items[q.head].isCancelled() {
		q.items[q.head] = zero
		q.head++
	}
	q.compact()
}

func (q *waitq[E]) compact() {
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
		return
	}
	if q.head >= 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}
