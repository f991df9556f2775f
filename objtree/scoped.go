package objtree

// View borrows node id read-only for the duration of f. The handle is released
// when f returns, whether normally, with an error, or by panicking.
func (t *Tree[T]) View(id NodeID, f func(*Ref[T]) error) error {
	r, err := t.Get(id)
	if err != nil {
		return err
	}
	defer r.Release()
	return f(r)
}

// Update borrows node id for writing for the duration of f. The handle is
// released when f returns, whether normally, with an error, or by panicking.
func (t *Tree[T]) Update(id NodeID, f func(*Mut[T]) error) error {
	m, err := t.GetMut(id)
	if err != nil {
		return err
	}
	defer m.Release()
	return f(m)
}

// Walk calls f for every node of the tree in pre-order, children in insertion
// order, together with the node's depth (the root has depth 0).
//
// The structure of the tree is frozen during the walk; f may borrow nodes, but
// any structural mutation will fail with ErrTreeBorrowed. Walk stops at the
// first error returned by f and returns it.
func (t *Tree[T]) Walk(f func(id NodeID, depth int) error) error {
	return t.read(func() error {
		return walk(t.root, 0, f)
	})
}

func walk[T any](n *node[T], depth int, f func(NodeID, int) error) error {
	if err := f(n.id, depth); err != nil {
		return err
	}
	for _, ch := range n.children {
		if err := walk(ch, depth+1, f); err != nil {
			return err
		}
	}
	return nil
}
