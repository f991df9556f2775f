package objtree

import (
	"fmt"
	"sync/atomic"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/stable"
)

// NodeID identifies a node within a tree. Altering the tree will not invalidate
// an ID, as long as the node it references isn't removed.
//
// NodeIDs are comparable and may be used as map keys. The zero value denotes no
// node at all.
type NodeID struct {
	owner *treeTag
	slot  uint32
	gen   uint32
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id.owner == nil
}

func (id NodeID) String() string {
	if id.IsZero() {
		return "node<none>"
	}
	return fmt.Sprintf("node<%d.%d:%d>", id.owner.serial, id.slot, id.gen)
}

// treeTag tells the nodes of different trees apart.
type treeTag struct {
	serial uint64
}

var treeSerials atomic.Uint64

func newTreeTag() *treeTag {
	return &treeTag{serial: treeSerials.Add(1)}
}

// node is the storage cell of a tree node: the payload with its borrow tracker,
// plus the node's links. Links are only ever changed while the tree is held
// exclusively.
type node[T any] struct {
	stable.Cell[T]
	id       NodeID
	parent   *node[T]
	children []*node[T]
}

// slot is an entry of the node table. gen is bumped every time the slot is
// vacated, rendering outstanding NodeIDs for it stale.
type slot[T any] struct {
	node *node[T]
	gen  uint32
}

// nodeTable owns the storage cells of a tree.
type nodeTable[T any] struct {
	tag   *treeTag
	slots []slot[T]
	free  []uint32
}

func (tab *nodeTable[T]) lookup(id NodeID) (*node[T], error) {
	if id.owner != tab.tag {
		if id.IsZero() {
			return nil, fmt.Errorf("%w: zero node id", forest.ErrNodeNotFound)
		}
		return nil, fmt.Errorf("%w: %s belongs to another tree", forest.ErrNodeNotFound, id)
	}
	if int(id.slot) >= len(tab.slots) {
		return nil, fmt.Errorf("%w: %s", forest.ErrNodeNotFound, id)
	}
	s := tab.slots[id.slot]
	if s.node == nil || s.gen != id.gen {
		return nil, fmt.Errorf("%w: %s is stale", forest.ErrNodeNotFound, id)
	}
	return s.node, nil
}

func (tab *nodeTable[T]) alloc(payload T, policy stable.Policy) *node[T] {
	n := &node[T]{Cell: stable.Make(payload, policy)}
	var inx uint32
	if k := len(tab.free); k > 0 {
		inx = tab.free[k-1]
		tab.free = tab.free[:k-1]
	} else {
		inx = uint32(len(tab.slots))
		tab.slots = append(tab.slots, slot[T]{})
	}
	n.id = NodeID{owner: tab.tag, slot: inx, gen: tab.slots[inx].gen}
	tab.slots[inx].node = n
	return n
}

func (tab *nodeTable[T]) release(n *node[T]) {
	assert(n.State().IsIdle(), "removal of borrowed node")
	s := &tab.slots[n.id.slot]
	assert(s.node == n, "node table out of sync")
	s.node = nil
	s.gen++
	tab.free = append(tab.free, n.id.slot)
	n.parent, n.children = nil, nil
}
