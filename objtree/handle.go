package objtree

import (
	"fmt"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/stable"
)

// Handle is the common interface of Ref and Mut.
type Handle[T any] interface {
	ID() NodeID
	Access() Access
	Value() T
	ParentID() (NodeID, bool)
	ChildIDs() []NodeID
	Parent() (*Ref[T], error)
	ParentMut() (*Mut[T], error)
	Children() ([]*Ref[T], error)
	ChildrenMut() ([]*Mut[T], error)
	Release()
}

var (
	_ Handle[int] = (*Ref[int])(nil)
	_ Handle[int] = (*Mut[int])(nil)
)

// handle carries what Ref and Mut have in common: the position of the node
// within the tree and navigation to its relatives.
//
// Navigation follows the node's links directly. It does not go through the
// tree's gate check, as structural mutation is impossible while this handle is
// alive.
type handle[T any] struct {
	tree     *Tree[T]
	node     *node[T]
	released bool
}

func (h *handle[T]) live() {
	assert(!h.released, "use of released node handle")
}

// ID returns the ID of the borrowed node.
func (h *handle[T]) ID() NodeID {
	return h.node.id
}

// IsRoot reports whether the borrowed node is the root of its tree.
func (h *handle[T]) IsRoot() bool {
	return h.node.parent == nil
}

// ParentID returns the ID of the node's parent, if any.
func (h *handle[T]) ParentID() (NodeID, bool) {
	h.live()
	if h.node.parent == nil {
		return NodeID{}, false
	}
	return h.node.parent.id, true
}

// ChildIDs returns the IDs of the node's children in order.
func (h *handle[T]) ChildIDs() []NodeID {
	h.live()
	return childIDs(h.node)
}

// ChildCount returns the number of children of the node.
func (h *handle[T]) ChildCount() int {
	h.live()
	return len(h.node.children)
}

// Parent borrows the parent node read-only. It returns nil without an error
// for the root.
func (h *handle[T]) Parent() (*Ref[T], error) {
	h.live()
	if h.node.parent == nil {
		return nil, nil
	}
	h.tree.enter()
	return h.tree.borrowRef(h.node.parent)
}

// ParentMut borrows the parent node for writing. It returns nil without an
// error for the root.
func (h *handle[T]) ParentMut() (*Mut[T], error) {
	h.live()
	if h.node.parent == nil {
		return nil, nil
	}
	h.tree.enter()
	return h.tree.borrowMut(h.node.parent)
}

// Child borrows the i-th child read-only.
func (h *handle[T]) Child(i int) (*Ref[T], error) {
	h.live()
	if i < 0 || i >= len(h.node.children) {
		return nil, fmt.Errorf("%w: child index %d of %d", forest.ErrNodeNotFound, i,
			len(h.node.children))
	}
	h.tree.enter()
	return h.tree.borrowRef(h.node.children[i])
}

// ChildMut borrows the i-th child for writing.
func (h *handle[T]) ChildMut(i int) (*Mut[T], error) {
	h.live()
	if i < 0 || i >= len(h.node.children) {
		return nil, fmt.Errorf("%w: child index %d of %d", forest.ErrNodeNotFound, i,
			len(h.node.children))
	}
	h.tree.enter()
	return h.tree.borrowMut(h.node.children[i])
}

// Children borrows all children read-only. Either all children are borrowed or
// none is.
func (h *handle[T]) Children() ([]*Ref[T], error) {
	h.live()
	refs := make([]*Ref[T], 0, len(h.node.children))
	for _, ch := range h.node.children {
		h.tree.enter()
		r, err := h.tree.borrowRef(ch)
		if err != nil {
			for _, acquired := range refs {
				acquired.Release()
			}
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, nil
}

// ChildrenMut borrows all children for writing. Either all children are
// borrowed or none is.
func (h *handle[T]) ChildrenMut() ([]*Mut[T], error) {
	h.live()
	muts := make([]*Mut[T], 0, len(h.node.children))
	for _, ch := range h.node.children {
		h.tree.enter()
		m, err := h.tree.borrowMut(ch)
		if err != nil {
			for _, acquired := range muts {
				acquired.Release()
			}
			return nil, err
		}
		muts = append(muts, m)
	}
	return muts, nil
}

// leave unregisters the handle from the tree. Subsequent calls are no-ops.
func (h *handle[T]) leave() bool {
	if h.released {
		return false
	}
	h.released = true
	h.tree.gate.ReleaseShared()
	return true
}

// --- Ref -------------------------------------------------------------------

// Ref is a read-only handle of a node, with helpers to traverse nodes relative
// to this one.
type Ref[T any] struct {
	handle[T]
	borrow *stable.Ref[T]
}

// Access returns Read.
func (r *Ref[T]) Access() Access {
	return Read
}

// Value returns the node's payload.
func (r *Ref[T]) Value() T {
	r.live()
	return r.borrow.Value()
}

// Release gives back the borrow of the node. Subsequent calls are no-ops.
func (r *Ref[T]) Release() {
	if r == nil || r.released {
		return
	}
	r.borrow.Release()
	r.leave()
}

// Released reports whether r has been released.
func (r *Ref[T]) Released() bool {
	return r.released
}

// Promote turns r into a write handle, provided r is the only borrow of the
// node. On success r is consumed. On failure r remains valid and the error
// matches ErrBorrowConflict.
func (r *Ref[T]) Promote() (*Mut[T], error) {
	r.live()
	b, err := r.borrow.TryUpgrade()
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, r.node.id)
	}
	r.released = true // the gate registration moves over to the new handle
	return &Mut[T]{handle: handle[T]{tree: r.tree, node: r.node}, borrow: b}, nil
}

func (r *Ref[T]) String() string {
	return fmt.Sprintf("Ref(%s)", r.node.id)
}

// --- Mut -------------------------------------------------------------------

// Mut is a read-write handle of a node, with helpers to traverse nodes relative
// to this one.
type Mut[T any] struct {
	handle[T]
	borrow *stable.Mut[T]
}

// Access returns Write.
func (m *Mut[T]) Access() Access {
	return Write
}

// Value returns the node's payload.
func (m *Mut[T]) Value() T {
	m.live()
	return m.borrow.Value()
}

// Ptr returns a pointer to the node's payload. The pointer must not be used
// after m has been released.
func (m *Mut[T]) Ptr() *T {
	m.live()
	return m.borrow.Ptr()
}

// Set replaces the node's payload.
func (m *Mut[T]) Set(v T) {
	m.live()
	m.borrow.Set(v)
}

// Release gives back the borrow of the node. Subsequent calls are no-ops.
func (m *Mut[T]) Release() {
	if m == nil || m.released {
		return
	}
	m.borrow.Release()
	m.leave()
}

// Released reports whether m has been released.
func (m *Mut[T]) Released() bool {
	return m.released
}

// Demote turns m into a read-only handle, consuming m.
func (m *Mut[T]) Demote() *Ref[T] {
	m.live()
	b := m.borrow.Demote()
	m.released = true
	return &Ref[T]{handle: handle[T]{tree: m.tree, node: m.node}, borrow: b}
}

func (m *Mut[T]) String() string {
	return fmt.Sprintf("Mut(%s)", m.node.id)
}
