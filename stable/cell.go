package stable

// Cell holds a value of type T together with a borrow tracker.
//
// Cells must not be copied after first use. Use New for a heap allocated cell,
// or Make to initialize a cell embedded in another structure.
type Cell[T any] struct {
	tracker Tracker
	value   T
}

// New creates a cell holding value v, with a tracker following policy p.
func New[T any](v T, p Policy) *Cell[T] {
	c := Make(v, p)
	return &c
}

// Make returns an initialized cell value for embedding into other structs.
func Make[T any](v T, p Policy) Cell[T] {
	return Cell[T]{
		tracker: p.NewTracker(),
		value:   v,
	}
}

// State returns the current borrow state of the cell.
func (c *Cell[T]) State() State {
	return c.tracker.State()
}

// Tracker returns the borrow tracker of the cell.
func (c *Cell[T]) Tracker() Tracker {
	return c.tracker
}

// TryBorrow acquires a shared borrow. It fails with ErrAlreadyExclusivelyBorrowed
// if an exclusive borrow is outstanding.
func (c *Cell[T]) TryBorrow() (*Ref[T], error) {
	if !c.tracker.TryShared() {
		tracer().Debugf("cell: shared borrow rejected, state is %s", c.tracker.State())
		return nil, ErrAlreadyExclusivelyBorrowed
	}
	return &Ref[T]{cell: c}, nil
}

// TryBorrowMut acquires an exclusive borrow. It fails with ErrAlreadyBorrowed
// if any other borrow is outstanding.
func (c *Cell[T]) TryBorrowMut() (*Mut[T], error) {
	if !c.tracker.TryExclusive() {
		tracer().Debugf("cell: exclusive borrow rejected, state is %s", c.tracker.State())
		return nil, ErrAlreadyBorrowed
	}
	return &Mut[T]{cell: c}, nil
}

// --- Guards ----------------------------------------------------------------

// Ref is a shared borrow of a cell.
type Ref[T any] struct {
	cell     *Cell[T]
	released bool
}

// Value returns the cell's value. It panics if the borrow has been released.
func (r *Ref[T]) Value() T {
	assert(!r.released, "use of released shared borrow")
	return r.cell.value
}

// Released reports whether the borrow has already been given back.
func (r *Ref[T]) Released() bool {
	return r.released
}

// Release gives back the borrow. Subsequent calls are no-ops.
func (r *Ref[T]) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.cell.tracker.ReleaseShared()
}

// TryUpgrade converts r into an exclusive borrow, provided r is the only
// borrow outstanding. On success r is consumed; on failure r stays valid.
func (r *Ref[T]) TryUpgrade() (*Mut[T], error) {
	assert(!r.released, "upgrade of released shared borrow")
	if !r.cell.tracker.TryUpgrade() {
		return nil, ErrAlreadyBorrowed
	}
	r.released = true
	return &Mut[T]{cell: r.cell}, nil
}

// Mut is an exclusive borrow of a cell.
type Mut[T any] struct {
	cell     *Cell[T]
	released bool
}

// Value returns the cell's value. It panics if the borrow has been released.
func (m *Mut[T]) Value() T {
	assert(!m.released, "use of released exclusive borrow")
	return m.cell.value
}

// Ptr returns a pointer to the cell's value. The pointer must not be retained
// after the borrow has been released.
func (m *Mut[T]) Ptr() *T {
	assert(!m.released, "use of released exclusive borrow")
	return &m.cell.value
}

// Set replaces the cell's value.
func (m *Mut[T]) Set(v T) {
	assert(!m.released, "use of released exclusive borrow")
	m.cell.value = v
}

// Released reports whether the borrow has already been given back.
func (m *Mut[T]) Released() bool {
	return m.released
}

// Release gives back the borrow. Subsequent calls are no-ops.
func (m *Mut[T]) Release() {
	if m == nil || m.released {
		return
	}
	m.released = true
	m.cell.tracker.ReleaseExclusive()
}

// Demote converts m into a shared borrow, consuming m. No other borrow can
// slip in between.
func (m *Mut[T]) Demote() *Ref[T] {
	assert(!m.released, "demotion of released exclusive borrow")
	m.released = true
	m.cell.tracker.Downgrade()
	return &Ref[T]{cell: m.cell}
}
