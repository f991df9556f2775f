package stable

import "sync/atomic"

// Tracker tracks the borrows of a single resource.
//
// TryShared and TryExclusive either acquire a borrow and return true, or leave
// the tracker unchanged and return false. Releasing a borrow which is not held
// is a programming error and panics.
//
// TryUpgrade converts the caller's shared borrow into an exclusive one, which
// succeeds only if it is the sole shared borrow. Downgrade converts the
// caller's exclusive borrow into a shared one; it cannot fail.
type Tracker interface {
	TryShared() bool
	TryExclusive() bool
	TryUpgrade() bool
	ReleaseShared()
	ReleaseExclusive()
	Downgrade()
	State() State
}

// Policy selects the tracker implementation.
type Policy int

const (
	// Local trackers are plain counters. They must not be used from more than
	// one goroutine at a time.
	Local Policy = iota
	// Synchronized trackers use atomic operations and may be shared between
	// goroutines.
	Synchronized
)

func (p Policy) String() string {
	switch p {
	case Local:
		return "local"
	case Synchronized:
		return "synchronized"
	}
	return "unknown-policy"
}

// NewTracker creates an idle tracker following policy p.
func (p Policy) NewTracker() Tracker {
	if p == Synchronized {
		return &AtomicCounter{}
	}
	return &Counter{}
}

// --- Plain counter ---------------------------------------------------------

// Counter is a non-synchronized Tracker.
// The zero value is an idle tracker.
type Counter struct {
	state State
}

var _ Tracker = (*Counter)(nil)

func (c *Counter) TryShared() bool {
	s, ok := c.state.incShared()
	if ok {
		c.state = s
	}
	return ok
}

func (c *Counter) TryExclusive() bool {
	s, ok := c.state.incExclusive()
	if ok {
		c.state = s
	}
	return ok
}

func (c *Counter) TryUpgrade() bool {
	s, ok := c.state.upgrade()
	if ok {
		c.state = s
	}
	return ok
}

func (c *Counter) Downgrade() {
	c.state = c.state.downgrade()
}

func (c *Counter) ReleaseShared() {
	c.state = c.state.decShared()
}

func (c *Counter) ReleaseExclusive() {
	c.state = c.state.decExclusive()
}

func (c *Counter) State() State {
	return c.state
}

// --- Atomic counter --------------------------------------------------------

// AtomicCounter is a Tracker safe for concurrent use.
// The zero value is an idle tracker.
type AtomicCounter struct {
	state atomic.Uint64
}

var _ Tracker = (*AtomicCounter)(nil)

// update applies f in a compare-and-swap loop. It returns false without
// touching the tracker as soon as f rejects the current state.
func (c *AtomicCounter) update(f func(State) (State, bool)) bool {
	for {
		cur := c.state.Load()
		next, ok := f(State(cur))
		if !ok {
			return false
		}
		if c.state.CompareAndSwap(cur, uint64(next)) {
			return true
		}
	}
}

func (c *AtomicCounter) TryShared() bool {
	return c.update(State.incShared)
}

func (c *AtomicCounter) TryExclusive() bool {
	return c.update(State.incExclusive)
}

func (c *AtomicCounter) TryUpgrade() bool {
	return c.update(State.upgrade)
}

func (c *AtomicCounter) Downgrade() {
	c.update(func(s State) (State, bool) { return s.downgrade(), true })
}

func (c *AtomicCounter) ReleaseShared() {
	c.update(func(s State) (State, bool) { return s.decShared(), true })
}

func (c *AtomicCounter) ReleaseExclusive() {
	c.update(func(s State) (State, bool) { return s.decExclusive(), true })
}

func (c *AtomicCounter) State() State {
	return State(c.state.Load())
}
