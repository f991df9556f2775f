/*
Package objtree implements a nicely traversable tree which supports borrowing
many nodes at once, each one either read-only or read-write.

Every node lives in its own storage cell, which tracks borrows of the node's
payload at runtime. Nodes know their parent and their children, so a borrowed
node may reach its relatives directly:

	root, err := tree.RootRef()
	if err != nil {
	    return err
	}
	defer root.Release()
	children, err := root.ChildrenMut()   // write access to every child
	...

The tree itself keeps a counter of outstanding node handles. Structural
mutation (Insert, Remove, Reparent) requires this counter to be zero, and
handles cannot be acquired while a structural mutation is running. Links held
by handles thus stay valid for as long as the handles are alive.

Node identities (NodeID) stay valid across mutations of the tree as long as
the node they refer to is not removed.

Performance Characteristics

	Operation          |  Time
	-------------------+----------------------------
	Insert             |  O(1) amortized
	Remove             |  O(size of subtree + siblings)
	Reparent           |  O(depth + siblings)
	Get / GetMut       |  O(1)
	Parent / Child(i)  |  O(1)

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package objtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'forest'
func tracer() tracing.Trace {
	return tracing.Select("forest")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
