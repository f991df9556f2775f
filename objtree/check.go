package objtree

import (
	"fmt"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/stable"
)

// ErrCorrupted signals a violated structural invariant, see Check.
var ErrCorrupted = fmt.Errorf("%w: tree invariant violated", forest.ErrIllegalArguments)

// Check validates structural tree invariants:
//
//   - the root has no parent,
//   - every child links back to its parent,
//   - every node reachable from the root is owned by the node table under its ID,
//     exactly once,
//   - every node in the node table is reachable from the root,
//   - every node tracks borrows following the tree's policy,
//   - the node count matches.
//
// This checker is intended to be used in tests.
func (t *Tree[T]) Check() error {
	return t.read(func() error {
		if t.root == nil {
			return fmt.Errorf("%w: tree has no root", ErrCorrupted)
		}
		if t.root.parent != nil {
			return fmt.Errorf("%w: root %s has a parent", ErrCorrupted, t.root.id)
		}
		seen := make(map[*node[T]]bool, t.Len())
		if err := t.checkNode(t.root, seen); err != nil {
			tracer().Errorf("tree check: %v", err)
			return err
		}
		owned := 0
		for i, s := range t.nodes.slots {
			if s.node == nil {
				continue
			}
			owned++
			if !seen[s.node] {
				err := fmt.Errorf("%w: node in slot %d unreachable from root", ErrCorrupted, i)
				tracer().Errorf("tree check: %v", err)
				return err
			}
		}
		if owned != len(seen) || owned != t.Len() {
			err := fmt.Errorf("%w: node count mismatch (table %d, reachable %d, size %d)",
				ErrCorrupted, owned, len(seen), t.Len())
			tracer().Errorf("tree check: %v", err)
			return err
		}
		return nil
	})
}

func (t *Tree[T]) checkNode(n *node[T], seen map[*node[T]]bool) error {
	if seen[n] {
		return fmt.Errorf("%w: node %s reachable twice", ErrCorrupted, n.id)
	}
	seen[n] = true
	owner, err := t.nodes.lookup(n.id)
	if err != nil || owner != n {
		return fmt.Errorf("%w: node %s not owned by tree", ErrCorrupted, n.id)
	}
	if !followsPolicy(n.Cell.Tracker(), t.policy) {
		return fmt.Errorf("%w: node %s tracks borrows with %T, tree policy is %s",
			ErrCorrupted, n.id, n.Cell.Tracker(), t.policy)
	}
	for i, ch := range n.children {
		if ch == nil {
			return fmt.Errorf("%w: nil child at index %d of %s", ErrCorrupted, i, n.id)
		}
		if ch.parent != n {
			return fmt.Errorf("%w: child %s does not link back to %s", ErrCorrupted, ch.id, n.id)
		}
		if err := t.checkNode(ch, seen); err != nil {
			return err
		}
	}
	return nil
}

func followsPolicy(tr stable.Tracker, p stable.Policy) bool {
	switch tr.(type) {
	case *stable.Counter:
		return p == stable.Local
	case *stable.AtomicCounter:
		return p == stable.Synchronized
	}
	return false
}
