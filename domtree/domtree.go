package domtree

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/objtree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is the payload of a document tree node.
type Node struct {
	Type html.NodeType
	Tag  string // element name, empty for non-elements
	Attr []html.Attribute
	Text string // content of text, comment and doctype nodes
}

// Attribute returns the value of attribute key, if present.
func (n Node) Attribute(key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Label renders a node for tree printers: elements as <tag id=…>, text
// nodes quoted.
func Label(n Node) string {
	switch n.Type {
	case html.DocumentNode:
		return "#document"
	case html.ElementNode:
		var b strings.Builder
		b.WriteString("<")
		b.WriteString(n.Tag)
		if id, ok := n.Attribute("id"); ok {
			fmt.Fprintf(&b, " id=%s", id)
		}
		if class, ok := n.Attribute("class"); ok {
			fmt.Fprintf(&b, " class=%s", class)
		}
		b.WriteString(">")
		return b.String()
	case html.TextNode:
		return fmt.Sprintf("%q", n.Text)
	case html.CommentNode:
		return "<!--" + n.Text + "-->"
	case html.DoctypeNode:
		return "<!DOCTYPE " + n.Text + ">"
	}
	return "?"
}

// FromHTML parses a complete HTML document and builds an object tree from it.
// The root of the tree is the document node. Text nodes consisting of
// whitespace only are dropped.
func FromHTML(input io.Reader, opts ...objtree.Option) (*objtree.Tree[Node], error) {
	if input == nil {
		return nil, forest.ErrIllegalArguments
	}
	doc, err := html.Parse(input)
	if err != nil {
		return nil, err
	}
	tree := objtree.New(payload(doc), opts...)
	if err := build(tree, tree.Root(), doc); err != nil {
		return nil, err
	}
	tracer().Debugf("domtree: built tree of %d nodes", tree.Len())
	return tree, nil
}

// FromFragment parses an HTML fragment in the context of a <body> element.
// The fragment's top-level nodes become children of a synthetic document root.
func FromFragment(input io.Reader, opts ...objtree.Option) (*objtree.Tree[Node], error) {
	if input == nil {
		return nil, forest.ErrIllegalArguments
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(input, context)
	if err != nil {
		return nil, err
	}
	tree := objtree.New(Node{Type: html.DocumentNode}, opts...)
	for _, n := range nodes {
		if err := insert(tree, tree.Root(), n); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func build(tree *objtree.Tree[Node], parent objtree.NodeID, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := insert(tree, parent, c); err != nil {
			return err
		}
	}
	return nil
}

func insert(tree *objtree.Tree[Node], parent objtree.NodeID, n *html.Node) error {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return nil
	}
	id, err := tree.Insert(parent, payload(n))
	if err != nil {
		return err
	}
	return build(tree, id, n)
}

func payload(n *html.Node) Node {
	p := Node{Type: n.Type}
	switch n.Type {
	case html.ElementNode:
		p.Tag = n.Data
		p.Attr = append([]html.Attribute(nil), n.Attr...)
	case html.TextNode, html.CommentNode, html.DoctypeNode:
		p.Text = n.Data
	}
	return p
}

// Find returns the first element with the given tag, in document order.
func Find(tree *objtree.Tree[Node], tag string) (objtree.NodeID, error) {
	var found objtree.NodeID
	errFound := errors.New("found")
	err := tree.Walk(func(id objtree.NodeID, _ int) error {
		return tree.View(id, func(r *objtree.Ref[Node]) error {
			if n := r.Value(); n.Type == html.ElementNode && n.Tag == tag {
				found = id
				return errFound
			}
			return nil
		})
	})
	if errors.Is(err, errFound) {
		return found, nil
	}
	if err != nil {
		return objtree.NodeID{}, err
	}
	return objtree.NodeID{}, fmt.Errorf("%w: no element <%s>", forest.ErrNodeNotFound, tag)
}

// InnerText collects the textual content of a node and all its descendents.
// It resembles the text produced by
//
//	document.getElementById("myNode").innerText
//
// in JavaScript (except that InnerText cannot respect CSS styling suppressing
// the visibility of the node's descendents).
//
// The whole subtree is borrowed read-only while collecting. If any node of it
// is borrowed for writing, InnerText fails with forest.ErrBorrowConflict.
func InnerText(tree *objtree.Tree[Node], id objtree.NodeID) (string, error) {
	r, err := tree.Get(id)
	if err != nil {
		return "", err
	}
	defer r.Release()
	var b strings.Builder
	if err := collectText(r, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func collectText(r *objtree.Ref[Node], b *strings.Builder) error {
	if n := r.Value(); n.Type == html.TextNode {
		b.WriteString(n.Text)
	}
	children, err := r.Children()
	if err != nil {
		return err
	}
	defer func() {
		for _, ch := range children {
			ch.Release()
		}
	}()
	for _, ch := range children {
		if err := collectText(ch, b); err != nil {
			return err
		}
	}
	return nil
}
