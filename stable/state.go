package stable

import "fmt"

// State is the packed state of a borrow tracker.
//
// Bit 0 flags an exclusive borrow, the remaining bits hold the number of
// shared borrows. Both parts are never set at the same time.
type State uint64

const (
	exclusiveBit State = 1
	sharedUnit   State = 2
)

// Idle is the state of a tracker without any borrows.
const Idle State = 0

// IsIdle reports whether no borrow is outstanding.
func (s State) IsIdle() bool {
	return s == Idle
}

// IsExclusive reports whether an exclusive borrow is outstanding.
func (s State) IsExclusive() bool {
	return s&exclusiveBit != 0
}

// Shared returns the number of outstanding shared borrows.
func (s State) Shared() int {
	return int(s >> 1)
}

func (s State) String() string {
	switch {
	case s.IsIdle():
		return "idle"
	case s.IsExclusive():
		return "exclusive"
	}
	return fmt.Sprintf("shared(%d)", s.Shared())
}

// incShared returns the state after adding a shared borrow. It fails if an
// exclusive borrow is outstanding.
func (s State) incShared() (State, bool) {
	if s.IsExclusive() {
		return s, false
	}
	return s + sharedUnit, true
}

// decShared returns the state after dropping a shared borrow.
func (s State) decShared() State {
	assert(!s.IsExclusive() && s.Shared() > 0, "release of shared borrow not held")
	return s - sharedUnit
}

// incExclusive returns the exclusive state if s is idle.
func (s State) incExclusive() (State, bool) {
	if !s.IsIdle() {
		return s, false
	}
	return exclusiveBit, true
}

// decExclusive returns the state after dropping the exclusive borrow.
func (s State) decExclusive() State {
	assert(s.IsExclusive(), "release of exclusive borrow not held")
	return Idle
}

// upgrade turns a single shared borrow into an exclusive one.
func (s State) upgrade() (State, bool) {
	if s.IsExclusive() || s.Shared() != 1 {
		return s, false
	}
	return exclusiveBit, true
}

// downgrade turns the exclusive borrow into a single shared one.
func (s State) downgrade() State {
	assert(s.IsExclusive(), "downgrade of exclusive borrow not held")
	return sharedUnit
}
