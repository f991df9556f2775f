package simpletree

import (
	"fmt"
	"slices"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/stable"
)

// NodeID identifies a node of a tree. It stays valid until the node is removed.
type NodeID struct {
	slot uint32
	gen  uint32
}

// entry is a slot of the node table.
type entry[T any] struct {
	value    T
	parent   NodeID
	children []NodeID
	gen      uint32
	used     bool
	isRoot   bool
}

// Tree is a tree of payloads of type T, borrowed as a whole.
type Tree[T any] struct {
	tracker stable.Tracker
	entries []entry[T]
	free    []uint32
	root    NodeID
	size    int
}

// New creates a tree with a root node holding payload root.
func New[T any](root T, policy stable.Policy) *Tree[T] {
	t := &Tree[T]{tracker: policy.NewTracker()}
	t.root = t.alloc(root, NodeID{})
	t.entries[t.root.slot].isRoot = true
	return t
}

// Borrow borrows the tree read-only. It fails with ErrBorrowConflict while an
// Editor is alive.
func (t *Tree[T]) Borrow() (*View[T], error) {
	if !t.tracker.TryShared() {
		return nil, fmt.Errorf("%w: tree is being edited", forest.ErrBorrowConflict)
	}
	return &View[T]{tree: t}, nil
}

// BorrowMut borrows the tree for writing. It fails with ErrBorrowConflict while
// any View or Editor is alive.
func (t *Tree[T]) BorrowMut() (*Editor[T], error) {
	if !t.tracker.TryExclusive() {
		return nil, fmt.Errorf("%w: tree is borrowed", forest.ErrBorrowConflict)
	}
	return &Editor[T]{View: View[T]{tree: t}}, nil
}

func (t *Tree[T]) lookup(id NodeID) (*entry[T], error) {
	if int(id.slot) >= len(t.entries) {
		return nil, fmt.Errorf("%w: node %d:%d", forest.ErrNodeNotFound, id.slot, id.gen)
	}
	e := &t.entries[id.slot]
	if !e.used || e.gen != id.gen {
		return nil, fmt.Errorf("%w: node %d:%d is stale", forest.ErrNodeNotFound, id.slot, id.gen)
	}
	return e, nil
}

func (t *Tree[T]) alloc(v T, parent NodeID) NodeID {
	var inx uint32
	if k := len(t.free); k > 0 {
		inx = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		inx = uint32(len(t.entries))
		t.entries = append(t.entries, entry[T]{})
	}
	e := &t.entries[inx]
	e.value, e.parent, e.children, e.used = v, parent, nil, true
	t.size++
	return NodeID{slot: inx, gen: e.gen}
}

// --- View ------------------------------------------------------------------

// View is a read-only borrow of a whole tree.
type View[T any] struct {
	tree     *Tree[T]
	released bool
}

func (v *View[T]) live() {
	if v.released {
		panic("use of released tree borrow")
	}
}

// Root returns the ID of the root node.
func (v *View[T]) Root() NodeID {
	return v.tree.root
}

// Len returns the number of nodes in the tree.
func (v *View[T]) Len() int {
	v.live()
	return v.tree.size
}

// Value returns the payload of node id.
func (v *View[T]) Value(id NodeID) (T, error) {
	v.live()
	e, err := v.tree.lookup(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return e.value, nil
}

// ParentOf returns the parent of node id; the boolean result is false for the root.
func (v *View[T]) ParentOf(id NodeID) (NodeID, bool, error) {
	v.live()
	e, err := v.tree.lookup(id)
	if err != nil || e.isRoot {
		return NodeID{}, false, err
	}
	return e.parent, true, nil
}

// ChildrenOf returns the children of node id in insertion order.
func (v *View[T]) ChildrenOf(id NodeID) ([]NodeID, error) {
	v.live()
	e, err := v.tree.lookup(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(e.children), nil
}

// Release gives back the borrow. Subsequent calls are no-ops.
func (v *View[T]) Release() {
	if v == nil || v.released {
		return
	}
	v.released = true
	v.tree.tracker.ReleaseShared()
}

// --- Editor ----------------------------------------------------------------

// Editor is an exclusive borrow of a whole tree. It offers everything a View
// does, plus payload and structural mutation.
type Editor[T any] struct {
	View[T]
}

// Release gives back the borrow. Subsequent calls are no-ops.
func (ed *Editor[T]) Release() {
	if ed == nil || ed.released {
		return
	}
	ed.released = true
	ed.tree.tracker.ReleaseExclusive()
}

// Set replaces the payload of node id.
func (ed *Editor[T]) Set(id NodeID, value T) error {
	p, err := ed.Ptr(id)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// Ptr returns a pointer to the payload of node id. The pointer is valid until
// the next structural change or the release of the editor, whichever comes first.
func (ed *Editor[T]) Ptr(id NodeID) (*T, error) {
	ed.live()
	e, err := ed.tree.lookup(id)
	if err != nil {
		return nil, err
	}
	return &e.value, nil
}

// Insert appends a new node holding value as the last child of node parent.
func (ed *Editor[T]) Insert(parent NodeID, value T) (NodeID, error) {
	ed.live()
	if _, err := ed.tree.lookup(parent); err != nil {
		return NodeID{}, err
	}
	id := ed.tree.alloc(value, parent)
	p := &ed.tree.entries[parent.slot] // alloc may have moved the table
	p.children = append(p.children, id)
	tracer().Debugf("simpletree: inserted %d:%d below %d:%d", id.slot, id.gen, parent.slot, parent.gen)
	return id, nil
}

// Remove deletes the subtree rooted at node id. The root cannot be removed.
func (ed *Editor[T]) Remove(id NodeID) error {
	ed.live()
	e, err := ed.tree.lookup(id)
	if err != nil {
		return err
	}
	if e.isRoot {
		return forest.ErrRootRemoval
	}
	p := &ed.tree.entries[e.parent.slot]
	p.children = slices.DeleteFunc(p.children, func(ch NodeID) bool { return ch == id })
	stack := []NodeID{id}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x := &ed.tree.entries[top.slot]
		stack = append(stack, x.children...)
		var zero T
		x.value, x.children, x.used = zero, nil, false
		x.gen++
		ed.tree.free = append(ed.tree.free, top.slot)
		ed.tree.size--
	}
	return nil
}

// Reparent moves the subtree rooted at node id to become the last child of
// newParent. It fails with ErrCycleDetected if newParent is id or one of its
// descendants.
func (ed *Editor[T]) Reparent(id, newParent NodeID) error {
	ed.live()
	e, err := ed.tree.lookup(id)
	if err != nil {
		return err
	}
	if _, err := ed.tree.lookup(newParent); err != nil {
		return err
	}
	for a := newParent; ; {
		if a == id {
			return fmt.Errorf("%w: %d:%d below its own subtree", forest.ErrCycleDetected, id.slot, id.gen)
		}
		x := &ed.tree.entries[a.slot]
		if x.isRoot {
			break
		}
		a = x.parent
	}
	old := &ed.tree.entries[e.parent.slot]
	old.children = slices.DeleteFunc(old.children, func(ch NodeID) bool { return ch == id })
	e.parent = newParent
	p := &ed.tree.entries[newParent.slot]
	p.children = append(p.children, id)
	return nil
}
