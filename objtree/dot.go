package objtree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/forest"
)

// WriteDot outputs the structure of a tree in Graphviz DOT format
// (for debugging purposes).
//
// label renders a node's payload; if it is nil, payloads are printed with %v.
// Nodes currently borrowed for writing are drawn as “(borrowed)”, filled in
// a warning color.
func (t *Tree[T]) WriteDot(w io.Writer, label func(T) string) error {
	if label == nil {
		label = func(v T) string { return fmt.Sprintf("%v", v) }
	}
	var nodelist, edgelist strings.Builder
	err := t.Walk(func(id NodeID, depth int) error {
		var text string
		borrowed := false
		err := t.View(id, func(r *Ref[T]) error {
			text = label(r.Value())
			for _, ch := range r.ChildIDs() {
				fmt.Fprintf(&edgelist, "\"%s\" -> \"%s\";\n", id, ch)
			}
			return nil
		})
		if errors.Is(err, forest.ErrBorrowConflict) {
			borrowed, text = true, "(borrowed)"
			children, _ := t.childrenDuringWalk(id)
			for _, ch := range children {
				fmt.Fprintf(&edgelist, "\"%s\" -> \"%s\";\n", id, ch)
			}
		} else if err != nil {
			return err
		}
		fmt.Fprintf(&nodelist, "\"%s\" [label=\"%s\"%s];\n", id, dotEscape(text),
			nodeDotStyles(depth == 0, borrowed))
		return nil
	})
	if err != nil {
		tracer().Errorf("tree DOT: %s", err.Error())
		return err
	}
	for _, s := range []string{
		"strict digraph {\n",
		"\tnode [fontname=Arial,fontsize=12];\n",
		nodelist.String(),
		edgelist.String(),
		"}\n",
	} {
		if _, err = io.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// childrenDuringWalk reads the children of id while the caller already holds
// the tree read-only.
func (t *Tree[T]) childrenDuringWalk(id NodeID) ([]NodeID, error) {
	n, err := t.nodes.lookup(id)
	if err != nil {
		return nil, err
	}
	return childIDs(n), nil
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}

func nodeDotStyles(isroot bool, borrowed bool) string {
	s := ",style=filled,shape=box"
	switch {
	case borrowed:
		s += ",fillcolor=\"#FF9944\""
	case isroot:
		s += ",color=black,fillcolor=\"#88BBFF\""
	default:
		s += ",fillcolor=\"#CCDDFF\""
	}
	return s
}
