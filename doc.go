/*
Package forest offers trees of arbitrary payloads with two different
aliasing trade-offs.

Trees

Package objtree implements a tree most similar to HTML's DOM: every node carries
a payload and an ordered list of children. Clients may hold many borrows into
different nodes at the same time, each one independently read-only or
read-write, and a borrowed node may navigate to its parent and children without
going back through the tree. Exclusivity is checked at runtime, per node.

Package simpletree is the conservative baseline. It may be borrowed as a whole,
either read-only or read-write, and costs no extra allocation per node.

Both trees check borrows with trackers from package stable. By default trackers
are plain counters, suitable for use from a single goroutine. Trees configured
with stable.Synchronized use atomic trackers and may be shared between
goroutines, at the cost of an atomic operation on every borrow and release.

Borrows and structural changes

A tree alternates between two phases. As long as any node handle is alive, the
structure of the tree is frozen: Insert, Remove and Reparent fail with
ErrTreeBorrowed. Handles therefore may keep links to their relatives without
re-validating them. Once every handle has been released, structural mutation
is possible again.

Go has no destructors, so releasing a handle is the client's duty:

	h, err := tree.GetMut(id)
	if err != nil {
	    return err
	}
	defer h.Release()

Helpers like objtree.Tree.View and objtree.Tree.Update release on every exit
path, including panics.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the License file for details.

*/
package forest

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// TreeError is an error type for the forest module.
type TreeError string

func (e TreeError) Error() string {
	return string(e)
}

// ErrBorrowConflict is flagged if a borrow of a node conflicts with borrows
// already outstanding: an exclusive borrow while any other borrow is held, or a
// shared borrow while an exclusive borrow is held.
const ErrBorrowConflict = TreeError("node is already borrowed incompatibly")

// ErrTreeBorrowed is flagged when a structural mutation is attempted while at
// least one node handle of the tree is still alive.
const ErrTreeBorrowed = TreeError("tree has outstanding borrows")

// ErrNodeNotFound is flagged for node identities which do not denote a node
// currently owned by the tree (removed nodes or nodes of another tree).
const ErrNodeNotFound = TreeError("tree missing expected node")

// ErrCycleDetected is flagged if re-parenting would make a node its own ancestor.
const ErrCycleDetected = TreeError("operation would create a cycle")

// ErrRootRemoval is flagged when clients try to remove the root of a tree.
const ErrRootRemoval = TreeError("cannot remove root node")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = TreeError("illegal arguments")
