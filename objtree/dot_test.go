package objtree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestWriteDot(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, ids := buildTree(t)
	g, _ := tree.GetMut(ids["G"])
	var b strings.Builder
	if err := tree.WriteDot(&b, nil); err != nil {
		t.Fatal(err)
	}
	g.Release()
	dot := b.String()
	t.Logf("\n%s", dot)
	if !strings.HasPrefix(dot, "strict digraph {") {
		t.Errorf("expected DOT graph header")
	}
	for _, label := range []string{`label="R"`, `label="C1"`, `label="C2"`, `label="(borrowed)"`} {
		if !strings.Contains(dot, label) {
			t.Errorf("expected %s in DOT output", label)
		}
	}
	edge := `"` + ids["C1"].String() + `" -> "` + ids["G"].String() + `"`
	if !strings.Contains(dot, edge) {
		t.Errorf("expected edge %s", edge)
	}
	if tree.Outstanding() != 0 {
		t.Errorf("WriteDot leaked %d handle(s)", tree.Outstanding())
	}
}

// failingWriter accepts n bytes, then fails.
type failingWriter struct {
	n int
}

var errWriteFailed = errors.New("write failed")

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		return 0, errWriteFailed
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriteDotReportsWriteErrors(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree, _ := buildTree(t)
	for _, n := range []int{0, len("strict digraph {\n")} { // fail on the first and on the second line
		if err := tree.WriteDot(&failingWriter{n: n}, nil); !errors.Is(err, errWriteFailed) {
			t.Errorf("writer failing after %d bytes: expected write error, got %v", n, err)
		}
	}
}
