package yamltree

import (
	"strings"
	"testing"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/objtree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const config = `name: forest
defaults: &defaults
  timeout: 30
servers:
  - host: alpha
    port: 8080
  - host: beta
    settings: *defaults
`

func setup(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}

func TestFromYAML(t *testing.T) {
	defer setup(t)()
	//
	tree, err := FromYAML(strings.NewReader(config))
	require.NoError(t, err)
	require.NoError(t, tree.Check())
	// document, top mapping, name, defaults, timeout, servers, 2 × (item, host),
	// port, settings
	assert.Equal(t, 12, tree.Len())
	assert.Zero(t, tree.Outstanding())

	var labels []string
	err = tree.Walk(func(id objtree.NodeID, depth int) error {
		return tree.View(id, func(r *objtree.Ref[Node]) error {
			labels = append(labels, strings.Repeat(" ", depth)+Label(r.Value()))
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"---",
		" {}",
		"  name: forest",
		"  defaults: &defaults {}",
		"   timeout: 30",
		"  servers: []",
		"   {}",
		"    host: alpha",
		"    port: 8080",
		"   {}",
		"    host: beta",
		"    settings: *defaults",
	}, labels)
}

func TestLookup(t *testing.T) {
	defer setup(t)()
	//
	tree, err := FromYAML(strings.NewReader(config))
	require.NoError(t, err)

	id, err := Lookup(tree, "servers.1.host")
	require.NoError(t, err)
	err = tree.View(id, func(r *objtree.Ref[Node]) error {
		assert.Equal(t, "beta", r.Value().Value)
		assert.True(t, r.Value().IsScalar())
		assert.Equal(t, 7, r.Value().Line)
		return nil
	})
	require.NoError(t, err)

	_, err = Lookup(tree, "servers.2")
	assert.ErrorIs(t, err, forest.ErrNodeNotFound)
	_, err = Lookup(tree, "servers.x")
	assert.ErrorIs(t, err, forest.ErrNodeNotFound)
	_, err = Lookup(tree, "name.first")
	assert.ErrorIs(t, err, forest.ErrNodeNotFound)
	assert.Zero(t, tree.Outstanding(), "lookups leaked handles")
}

func TestUpdateAndEncode(t *testing.T) {
	defer setup(t)()
	//
	tree, err := FromYAML(strings.NewReader(config))
	require.NoError(t, err)

	port, err := Lookup(tree, "servers.0.port")
	require.NoError(t, err)
	err = tree.Update(port, func(m *objtree.Mut[Node]) error {
		m.Ptr().Value = "9090"
		return nil
	})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Encode(&b, tree))
	var decoded struct {
		Name    string
		Servers []struct {
			Host     string
			Port     int
			Settings struct{ Timeout int }
		}
	}
	require.NoError(t, yaml.Unmarshal([]byte(b.String()), &decoded))
	assert.Equal(t, "forest", decoded.Name)
	require.Len(t, decoded.Servers, 2)
	assert.Equal(t, 9090, decoded.Servers[0].Port)
	assert.Equal(t, 30, decoded.Servers[1].Settings.Timeout)
}

func TestEncodeWithWriter(t *testing.T) {
	defer setup(t)()
	//
	tree, err := FromYAML(strings.NewReader(config))
	require.NoError(t, err)
	host, err := Lookup(tree, "servers.0.host")
	require.NoError(t, err)
	m, err := tree.GetMut(host)
	require.NoError(t, err)
	defer m.Release()

	var b strings.Builder
	err = Encode(&b, tree)
	assert.ErrorIs(t, err, forest.ErrBorrowConflict)
	assert.Equal(t, 1, tree.Outstanding())
}

func TestEmptyInput(t *testing.T) {
	defer setup(t)()
	//
	_, err := FromYAML(strings.NewReader(""))
	assert.ErrorIs(t, err, forest.ErrIllegalArguments)
}

func TestKeyTagsSurviveEncoding(t *testing.T) {
	defer setup(t)()
	//
	tree, err := FromYAML(strings.NewReader("1: a\ntrue: b\nname: c\n"))
	require.NoError(t, err)
	id, err := Lookup(tree, "1")
	require.NoError(t, err)
	err = tree.View(id, func(r *objtree.Ref[Node]) error {
		assert.Equal(t, "!!int", r.Value().KeyTag)
		return nil
	})
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Encode(&b, tree))
	out := b.String()
	assert.NotContains(t, out, `"1"`)
	assert.NotContains(t, out, `"true"`)
	var decoded map[interface{}]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, map[interface{}]string{1: "a", true: "b", "name": "c"}, decoded)
}

func TestComplexKeysRejected(t *testing.T) {
	defer setup(t)()
	//
	_, err := FromYAML(strings.NewReader("? [a, b]\n: c\n"))
	assert.ErrorIs(t, err, forest.ErrIllegalArguments)
	_, err = FromYAML(strings.NewReader("outer:\n  ? {x: 1}\n  : c\n"))
	assert.ErrorIs(t, err, forest.ErrIllegalArguments)
}
