package crawler

import "sync"

// Item is one unit of crawl work: a URL and its link distance from the seed.
type Item struct {
	URL   string
	Depth int
}

// Frontier is the shared work queue with join semantics. Every admitted
// Push increments a pending counter; MarkDone decrements it. The frontier
// is drained when the counter returns to zero, which can only happen with
// an empty queue since popped-but-unfinished items stay pending. A bare
// empty-check would race a worker that is about to push more work.
//
// The depth bound is enforced at admission: items beyond the configured
// maximum are refused by Push without being counted, so over-deep pushes
// can never wedge the join.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	items    []Item
	pending  int
	maxDepth int

	// closed is set on drain or Close. Once set, Push refuses new work and
	// Pop returns false to every waiter.
	closed bool

	// done is closed exactly once, on drain or Close.
	done     chan struct{}
	doneOnce sync.Once
}

// NewFrontier creates an empty Frontier with the given depth bound.
func NewFrontier(maxDepth int) *Frontier {
	f := &Frontier{
		maxDepth: maxDepth,
		done:     make(chan struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push admits (url, depth) to the queue and reports whether it was
// accepted. Items beyond the depth bound and pushes after close are
// refused and never counted against the join.
func (f *Frontier) Push(url string, depth int) bool {
	if depth > f.maxDepth {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}

	f.items = append(f.items, Item{URL: url, Depth: depth})
	f.pending++
	f.cond.Signal()
	return true
}

// Pop blocks until an item is available or the frontier is permanently
// drained or closed. The second return value is false when no item will
// ever arrive and the calling worker should exit.
//
// Every popped item must be balanced by exactly one MarkDone call,
// regardless of how its processing went.
func (f *Frontier) Pop() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.items) == 0 && !f.closed {
		f.cond.Wait()
	}

	// Cancellation abandons queued items; drain implies an empty queue.
	if f.closed {
		return Item{}, false
	}

	item := f.items[0]
	f.items = f.items[1:]
	return item, true
}

// MarkDone records completion of one popped item. When the last pending
// item completes the frontier drains: waiters are released and Done is
// signalled.
func (f *Frontier) MarkDone() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending--
	if f.pending == 0 {
		f.closed = true
		f.cond.Broadcast()
		f.signalDone()
	}
}

// Close shuts the frontier down without waiting for the queue to drain.
// Queued items are abandoned and blocked Pop calls return false. Used for
// cancellation; a normal run ends via drain instead.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.items = nil
	f.cond.Broadcast()
	f.signalDone()
}

// Done returns a channel closed when the frontier has drained or been
// closed.
func (f *Frontier) Done() <-chan struct{} {
	return f.done
}

// Pending returns the number of admitted items not yet marked done.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// signalDone closes the done channel once. Callers hold f.mu.
func (f *Frontier) signalDone() {
	f.doneOnce.Do(func() {
		close(f.done)
	})
}
