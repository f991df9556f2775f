package yamltree

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/objtree"
	"gopkg.in/yaml.v3"
)

// Node is the payload of a YAML tree node.
type Node struct {
	Kind   yaml.Kind
	Key    string // mapping key, if the node is a mapping value
	KeyTag string // resolved tag of the mapping key, e.g. "!!int"
	Tag    string // resolved tag, e.g. "!!str" or "!!map"
	Value  string // scalar value, or anchor name for aliases
	Anchor string
	Line   int
	Column int
}

// IsScalar is true for scalar nodes.
func (n Node) IsScalar() bool {
	return n.Kind == yaml.ScalarNode
}

// Label renders a node for tree printers.
func Label(n Node) string {
	var v string
	switch n.Kind {
	case yaml.DocumentNode:
		return "---"
	case yaml.MappingNode:
		v = "{}"
	case yaml.SequenceNode:
		v = "[]"
	case yaml.AliasNode:
		v = "*" + n.Value
	default:
		v = n.Value
	}
	if n.Anchor != "" {
		v = "&" + n.Anchor + " " + v
	}
	if n.Key != "" {
		return n.Key + ": " + v
	}
	return v
}

// FromYAML decodes the first document of input and builds an object tree from
// it. The root of the tree is the document node.
func FromYAML(input io.Reader, opts ...objtree.Option) (*objtree.Tree[Node], error) {
	if input == nil {
		return nil, forest.ErrIllegalArguments
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(input).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty YAML input", forest.ErrIllegalArguments)
		}
		return nil, err
	}
	tree := objtree.New(payload(&doc, nil), opts...)
	if err := build(tree, tree.Root(), &doc); err != nil {
		return nil, err
	}
	tracer().Debugf("yamltree: built tree of %d nodes", tree.Len())
	return tree, nil
}

func build(tree *objtree.Tree[Node], parent objtree.NodeID, n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: complex mapping key at line %d, column %d",
					forest.ErrIllegalArguments, key.Line, key.Column)
			}
			if err := insert(tree, parent, n.Content[i+1], key); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range n.Content {
		if err := insert(tree, parent, c, nil); err != nil {
			return err
		}
	}
	return nil
}

func insert(tree *objtree.Tree[Node], parent objtree.NodeID, n *yaml.Node, key *yaml.Node) error {
	id, err := tree.Insert(parent, payload(n, key))
	if err != nil {
		return err
	}
	return build(tree, id, n)
}

func payload(n *yaml.Node, key *yaml.Node) Node {
	p := Node{
		Kind:   n.Kind,
		Tag:    n.ShortTag(),
		Value:  n.Value,
		Anchor: n.Anchor,
		Line:   n.Line,
		Column: n.Column,
	}
	if key != nil {
		p.Key, p.KeyTag = key.Value, key.ShortTag()
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		p.Value = n.Alias.Anchor
	}
	return p
}

// Lookup finds a node by a dot-separated path, starting at the document's top
// level node. Path elements address mapping keys or, for sequences, indices:
//
//	Lookup(tree, "servers.0.host")
//
// An empty path denotes the top level node.
func Lookup(tree *objtree.Tree[Node], path string) (objtree.NodeID, error) {
	top, err := tree.Get(tree.Root())
	if err != nil {
		return objtree.NodeID{}, err
	}
	cur, err := top.Child(0)
	top.Release()
	if err != nil {
		return objtree.NodeID{}, err
	}
	if path == "" {
		defer cur.Release()
		return cur.ID(), nil
	}
	for _, step := range strings.Split(path, ".") {
		next, err := descend(cur, step)
		cur.Release()
		if err != nil {
			return objtree.NodeID{}, fmt.Errorf("%w: path %q", err, path)
		}
		cur = next
	}
	defer cur.Release()
	return cur.ID(), nil
}

func descend(r *objtree.Ref[Node], step string) (*objtree.Ref[Node], error) {
	switch r.Value().Kind {
	case yaml.SequenceNode:
		i, err := strconv.Atoi(step)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a sequence index", forest.ErrNodeNotFound, step)
		}
		return r.Child(i)
	case yaml.MappingNode:
		for i := 0; i < r.ChildCount(); i++ {
			ch, err := r.Child(i)
			if err != nil {
				return nil, err
			}
			if ch.Value().Key == step {
				return ch, nil
			}
			ch.Release()
		}
		return nil, fmt.Errorf("%w: no key %q", forest.ErrNodeNotFound, step)
	}
	return nil, fmt.Errorf("%w: cannot descend into scalar at %q", forest.ErrNodeNotFound, step)
}

// Encode writes the tree as a YAML document to w. Each node is borrowed
// read-only while encoding; a node borrowed for writing elsewhere makes Encode
// fail with forest.ErrBorrowConflict.
func Encode(w io.Writer, tree *objtree.Tree[Node]) error {
	if w == nil || tree == nil {
		return forest.ErrIllegalArguments
	}
	root, err := tree.RootRef()
	if err != nil {
		return err
	}
	defer root.Release()
	anchors := make(map[string]*yaml.Node)
	doc, err := toYAML(root, anchors)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func toYAML(r *objtree.Ref[Node], anchors map[string]*yaml.Node) (*yaml.Node, error) {
	p := r.Value()
	n := &yaml.Node{
		Kind:   p.Kind,
		Tag:    p.Tag,
		Value:  p.Value,
		Anchor: p.Anchor,
	}
	if p.Anchor != "" {
		anchors[p.Anchor] = n
	}
	if p.Kind == yaml.AliasNode {
		n.Alias = anchors[p.Value]
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: unknown anchor %q", forest.ErrNodeNotFound, p.Value)
		}
		n.Tag = ""
	}
	if p.Kind == yaml.MappingNode || p.Kind == yaml.SequenceNode || p.Kind == yaml.DocumentNode {
		n.Value = ""
	}
	children, err := r.Children()
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, ch := range children {
			ch.Release()
		}
	}()
	for _, ch := range children {
		c, err := toYAML(ch, anchors)
		if err != nil {
			return nil, err
		}
		if p.Kind == yaml.MappingNode {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: ch.Value().KeyTag, Value: ch.Value().Key}
			if key.Tag == "" {
				key.Tag = "!!str"
			}
			n.Content = append(n.Content, key)
		}
		n.Content = append(n.Content, c)
	}
	return n, nil
}
