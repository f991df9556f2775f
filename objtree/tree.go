package objtree

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/guiguan/caster"
	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/stable"
)

// Tree is a tree of nodes carrying payloads of type T, with the ability to
// borrow many nodes at once.
//
// A tree always has a root. The tree owns all of its nodes; clients refer to
// nodes by NodeID and access them through handles (Ref, Mut).
type Tree[T any] struct {
	policy stable.Policy
	gate   stable.Tracker // shared: outstanding handles; exclusive: structural mutation
	nodes  nodeTable[T]
	root   *node[T]
	size   atomic.Int64
	cast   *caster.Caster // nil if events are disabled
}

// New creates a tree with a root node holding payload root.
func New[T any](root T, opts ...Option) *Tree[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Tree[T]{
		policy: cfg.policy,
		gate:   cfg.policy.NewTracker(),
		nodes:  nodeTable[T]{tag: newTreeTag()},
	}
	if cfg.events {
		t.cast = caster.New(cfg.eventCtx)
	}
	t.root = t.nodes.alloc(root, t.policy)
	t.size.Store(1)
	tracer().Debugf("tree: created with root %s, policy %s", t.root.id, t.policy)
	return t
}

// Policy returns the borrow tracker policy of the tree.
func (t *Tree[T]) Policy() stable.Policy {
	return t.policy
}

// Root returns the ID of the root node.
func (t *Tree[T]) Root() NodeID {
	return t.root.id
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree[T]) Len() int {
	return int(t.size.Load())
}

// Outstanding returns the number of node handles currently alive.
func (t *Tree[T]) Outstanding() int {
	return t.gate.State().Shared()
}

// Contains reports whether id denotes a node currently owned by t.
func (t *Tree[T]) Contains(id NodeID) bool {
	var found bool
	err := t.read(func() error {
		_, err := t.nodes.lookup(id)
		found = err == nil
		return nil
	})
	return err == nil && found
}

// --- Phases ----------------------------------------------------------------

// read runs f while holding a transient shared borrow of the tree, which keeps
// structural mutations out.
func (t *Tree[T]) read(f func() error) error {
	if !t.gate.TryShared() {
		return fmt.Errorf("%w: structural mutation in progress", forest.ErrTreeBorrowed)
	}
	defer t.gate.ReleaseShared()
	return f()
}

// mutate runs f while holding the tree exclusively. It fails if any handle is
// outstanding.
func (t *Tree[T]) mutate(op string, f func() error) error {
	if !t.gate.TryExclusive() {
		err := fmt.Errorf("%w: %s with %d handle(s) outstanding", forest.ErrTreeBorrowed,
			op, t.gate.State().Shared())
		tracer().Debugf("tree: %v", err)
		return err
	}
	defer t.gate.ReleaseExclusive()
	return f()
}

// enter registers a new handle derived from a handle already alive. Since that
// handle holds a shared borrow of the tree, this cannot fail.
func (t *Tree[T]) enter() {
	ok := t.gate.TryShared()
	assert(ok, "tree exclusively held while handles are outstanding")
}

// --- Link table ------------------------------------------------------------

// ParentOf returns the ID of the parent of node id. The boolean result is
// false for the root.
func (t *Tree[T]) ParentOf(id NodeID) (NodeID, bool, error) {
	var parent NodeID
	var ok bool
	err := t.read(func() error {
		n, err := t.nodes.lookup(id)
		if err != nil {
			return err
		}
		if n.parent != nil {
			parent, ok = n.parent.id, true
		}
		return nil
	})
	return parent, ok, err
}

// ChildrenOf returns the IDs of the children of node id, in insertion order.
func (t *Tree[T]) ChildrenOf(id NodeID) ([]NodeID, error) {
	var ids []NodeID
	err := t.read(func() error {
		n, err := t.nodes.lookup(id)
		if err != nil {
			return err
		}
		ids = childIDs(n)
		return nil
	})
	return ids, err
}

// Ancestors returns the IDs of the ancestors of node id, starting with its
// parent and ending with the root.
func (t *Tree[T]) Ancestors(id NodeID) ([]NodeID, error) {
	var ids []NodeID
	err := t.read(func() error {
		n, err := t.nodes.lookup(id)
		if err != nil {
			return err
		}
		for p := n.parent; p != nil; p = p.parent {
			ids = append(ids, p.id)
		}
		return nil
	})
	return ids, err
}

// IsAncestor reports whether node a is a proper ancestor of node b.
func (t *Tree[T]) IsAncestor(a, b NodeID) (bool, error) {
	var is bool
	err := t.read(func() error {
		na, err := t.nodes.lookup(a)
		if err != nil {
			return err
		}
		nb, err := t.nodes.lookup(b)
		if err != nil {
			return err
		}
		is = isAncestor(na, nb)
		return nil
	})
	return is, err
}

func isAncestor[T any](a, b *node[T]) bool {
	for p := b.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

func childIDs[T any](n *node[T]) []NodeID {
	ids := make([]NodeID, len(n.children))
	for i, ch := range n.children {
		ids[i] = ch.id
	}
	return ids
}

// --- Structural mutation ---------------------------------------------------

// Insert creates a new node holding payload and appends it as the last child of
// node parent. It fails with ErrTreeBorrowed if any handle is outstanding.
func (t *Tree[T]) Insert(parent NodeID, payload T) (NodeID, error) {
	var id NodeID
	err := t.mutate("insert", func() error {
		p, err := t.nodes.lookup(parent)
		if err != nil {
			return err
		}
		n := t.nodes.alloc(payload, t.policy)
		n.parent = p
		p.children = append(p.children, n)
		t.size.Add(1)
		id = n.id
		tracer().Debugf("tree: inserted %s as child #%d of %s", id, len(p.children)-1, parent)
		t.publish(Event{Kind: Inserted, Node: id, Parent: parent})
		return nil
	})
	return id, err
}

// Remove deletes the subtree rooted at node id. IDs of all nodes in the subtree
// become stale. The root cannot be removed.
func (t *Tree[T]) Remove(id NodeID) error {
	return t.mutate("remove", func() error {
		n, err := t.nodes.lookup(id)
		if err != nil {
			return err
		}
		if n == t.root {
			return forest.ErrRootRemoval
		}
		parent := n.parent
		parent.children = slices.DeleteFunc(parent.children, func(ch *node[T]) bool {
			return ch == n
		})
		var removed int64
		stack := []*node[T]{n}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = append(stack[:len(stack)-1], top.children...)
			t.nodes.release(top)
			removed++
		}
		t.size.Add(-removed)
		tracer().Debugf("tree: removed %s with %d node(s) from %s", id, removed, parent.id)
		t.publish(Event{Kind: Removed, Node: id, Parent: parent.id})
		return nil
	})
}

// Reparent moves the subtree rooted at node id to become the last child of node
// newParent. It fails with ErrCycleDetected if newParent is id or one of its
// descendants; this includes every attempt to re-parent the root.
func (t *Tree[T]) Reparent(id, newParent NodeID) error {
	return t.mutate("reparent", func() error {
		n, err := t.nodes.lookup(id)
		if err != nil {
			return err
		}
		p, err := t.nodes.lookup(newParent)
		if err != nil {
			return err
		}
		if n == p || isAncestor(n, p) {
			tracer().Debugf("tree: refusing to move %s below %s", id, newParent)
			return fmt.Errorf("%w: %s is not outside the subtree of %s", forest.ErrCycleDetected,
				newParent, id)
		}
		old := n.parent
		old.children = slices.DeleteFunc(old.children, func(ch *node[T]) bool {
			return ch == n
		})
		n.parent = p
		p.children = append(p.children, n)
		tracer().Debugf("tree: moved %s from %s to %s", id, old.id, newParent)
		t.publish(Event{Kind: Reparented, Node: id, Parent: newParent, OldParent: old.id})
		return nil
	})
}

// --- Handles ---------------------------------------------------------------

// Access selects read-only or read-write access to a node.
type Access int

const (
	// Read access allows any number of concurrent readers of a node.
	Read Access = iota
	// Write access is exclusive.
	Write
)

func (a Access) String() string {
	if a == Write {
		return "write"
	}
	return "read"
}

// Get borrows node id read-only.
//
// It fails with ErrNodeNotFound for stale or foreign IDs, and with
// ErrBorrowConflict if the node is borrowed for writing.
func (t *Tree[T]) Get(id NodeID) (*Ref[T], error) {
	if !t.gate.TryShared() {
		return nil, fmt.Errorf("%w: structural mutation in progress", forest.ErrTreeBorrowed)
	}
	n, err := t.nodes.lookup(id)
	if err != nil {
		t.gate.ReleaseShared()
		return nil, err
	}
	return t.borrowRef(n)
}

// GetMut borrows node id for writing.
//
// It fails with ErrNodeNotFound for stale or foreign IDs, and with
// ErrBorrowConflict if the node is borrowed at all.
func (t *Tree[T]) GetMut(id NodeID) (*Mut[T], error) {
	if !t.gate.TryShared() {
		return nil, fmt.Errorf("%w: structural mutation in progress", forest.ErrTreeBorrowed)
	}
	n, err := t.nodes.lookup(id)
	if err != nil {
		t.gate.ReleaseShared()
		return nil, err
	}
	return t.borrowMut(n)
}

// RootRef borrows the root node read-only.
func (t *Tree[T]) RootRef() (*Ref[T], error) {
	return t.Get(t.root.id)
}

// RootMut borrows the root node for writing.
func (t *Tree[T]) RootMut() (*Mut[T], error) {
	return t.GetMut(t.root.id)
}

// Handle borrows node id with the given access mode.
func (t *Tree[T]) Handle(id NodeID, access Access) (Handle[T], error) {
	if access == Write {
		m, err := t.GetMut(id)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	r, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// borrowRef acquires a shared borrow of n. The caller has registered the new
// handle with the gate already; on failure, this registration is undone.
func (t *Tree[T]) borrowRef(n *node[T]) (*Ref[T], error) {
	b, err := n.Cell.TryBorrow()
	if err != nil {
		t.gate.ReleaseShared()
		return nil, fmt.Errorf("%w (%s)", err, n.id)
	}
	return &Ref[T]{handle: handle[T]{tree: t, node: n}, borrow: b}, nil
}

// borrowMut acquires an exclusive borrow of n, see borrowRef.
func (t *Tree[T]) borrowMut(n *node[T]) (*Mut[T], error) {
	b, err := n.Cell.TryBorrowMut()
	if err != nil {
		t.gate.ReleaseShared()
		return nil, fmt.Errorf("%w (%s)", err, n.id)
	}
	return &Mut[T]{handle: handle[T]{tree: t, node: n}, borrow: b}, nil
}
