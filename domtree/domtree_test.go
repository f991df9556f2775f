package domtree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/objtree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/net/html"
)

const sample = `<!DOCTYPE html>
<html>
<head><title>Forest</title></head>
<body>
  <p id="first">Hello <b>World</b>!</p>
  <!-- a comment -->
  <p class="second">Bye</p>
</body>
</html>`

func TestFromHTML(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, err := FromHTML(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree from HTML is corrupt: %v", err)
	}
	var tags []string
	err = tree.Walk(func(id objtree.NodeID, depth int) error {
		return tree.View(id, func(r *objtree.Ref[Node]) error {
			if r.Value().Type == html.ElementNode {
				tags = append(tags, r.Value().Tag)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "html head title body p b p"
	if got := strings.Join(tags, " "); got != want {
		t.Errorf("expected elements %q, got %q", want, got)
	}
	if tree.Outstanding() != 0 {
		t.Errorf("expected no outstanding handles, have %d", tree.Outstanding())
	}
}

func TestInnerText(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, err := FromHTML(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	p, err := Find(tree, "p")
	if err != nil {
		t.Fatal(err)
	}
	text, err := InnerText(tree, p)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello World!" {
		t.Errorf("expected inner text 'Hello World!', got %q", text)
	}
	if tree.Outstanding() != 0 {
		t.Errorf("InnerText leaked %d handle(s)", tree.Outstanding())
	}
}

func TestInnerTextConflict(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, err := FromHTML(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Find(tree, "b")
	if err != nil {
		t.Fatal(err)
	}
	m, err := tree.GetMut(b)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Release()
	body, _ := Find(tree, "body")
	_, err = InnerText(tree, body)
	if !errors.Is(err, forest.ErrBorrowConflict) {
		t.Errorf("expected borrow conflict for subtree with writer, got %v", err)
	}
	if tree.Outstanding() != 1 {
		t.Errorf("expected only the writer to be outstanding, have %d", tree.Outstanding())
	}
}

func TestFindMissing(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, err := FromFragment(strings.NewReader(`<span>x</span>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Find(tree, "table"); !errors.Is(err, forest.ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
	if tree.Len() != 3 {
		t.Errorf("expected document, span and text, have %d nodes", tree.Len())
	}
}

func TestLabel(t *testing.T) {
	n := Node{
		Type: html.ElementNode,
		Tag:  "p",
		Attr: []html.Attribute{{Key: "id", Val: "first"}},
	}
	if l := Label(n); l != "<p id=first>" {
		t.Errorf("unexpected label %q", l)
	}
	if l := Label(Node{Type: html.TextNode, Text: "a\nb"}); l != `"a\nb"` {
		t.Errorf("unexpected text label %q", l)
	}
}
