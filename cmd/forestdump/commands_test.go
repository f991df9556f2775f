package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpHTML(t *testing.T) {
	path := writeFile(t, "doc.html", `<html><body><p id="x">Hi</p></body></html>`)
	out, err := run(t, "html", "--no-color", "--width", "0", path)
	require.NoError(t, err)
	assert.Equal(t, `#document
└── <html>
    ├── <head>
    └── <body>
        └── <p id=x>
            └── "Hi"
`, out)
}

func TestDumpYAMLAsDot(t *testing.T) {
	path := writeFile(t, "doc.yaml", "a: 1\nb: [x, y]\n")
	out, err := run(t, "yaml", "--dot", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "strict digraph"), "expected DOT output, got %q", out)
	assert.Contains(t, out, "b: []")
	assert.Equal(t, 5, strings.Count(out, "->"), "expected 5 edges")
}

func TestDumpErrors(t *testing.T) {
	_, err := run(t, "yaml", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := writeFile(t, "empty.yaml", "")
	_, err = run(t, "yaml", empty)
	assert.ErrorIs(t, err, forest.ErrIllegalArguments)

	_, err = run(t, "html", "--trace", "chatty", empty)
	assert.ErrorIs(t, err, forest.ErrIllegalArguments)

	_, err = run(t, "html")
	assert.Error(t, err, "missing file argument should be rejected")
}
