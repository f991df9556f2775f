/*
Package simpletree implements a plain tree which can be borrowed only as a
whole: either by any number of readers (View) or by a single writer (Editor).

Nodes are stored by value in a single table, so the tree costs no allocation per
node beyond its child lists. In exchange, a borrowed node cannot reach its
relatives by itself; clients navigate by NodeID through the View or Editor.

Use package objtree if different parts of a tree have to be borrowed
independently.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package simpletree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'forest'
func tracer() tracing.Trace {
	return tracing.Select("forest")
}
