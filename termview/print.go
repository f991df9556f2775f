package termview

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/objtree"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

const borrowedLabel = "(borrowed)"

var setupGraphemes sync.Once

// printer carries the state of a single print run.
type printer[T any] struct {
	tree   *objtree.Tree[T]
	label  func(T) string
	config *Config
	w      io.Writer
	colors palette
	err    error
}

type palette struct {
	root, borrowed, lines *color.Color
}

func makePalette(enabled bool) palette {
	p := palette{
		root:     color.New(color.FgBlue, color.Bold),
		borrowed: color.New(color.FgRed),
		lines:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.root, p.borrowed, p.lines} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Fprint writes tree to w, one node per line.
//
// label renders a node's payload; if it is nil, payloads are printed with %v.
// If config is nil, DefaultConfig is used.
func Fprint[T any](w io.Writer, tree *objtree.Tree[T], label func(T) string, config *Config) error {
	if tree == nil || w == nil {
		return forest.ErrIllegalArguments
	}
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	if c.Context == nil {
		c.Context = uax11.LatinContext
	}
	if label == nil {
		label = func(v T) string { return fmt.Sprintf("%v", v) }
	}
	p := &printer[T]{
		tree:   tree,
		label:  label,
		config: &c,
		w:      w,
		colors: makePalette(c.Color),
	}
	if err := p.node(tree.Root(), "", "", true); err != nil {
		return err
	}
	return p.err
}

// Sprint returns the printout of tree as a string, without colors.
func Sprint[V any](tree *objtree.Tree[V], label func(V) string) string {
	var b strings.Builder
	config := DefaultConfig()
	config.LineWidth = 0
	if err := Fprint(&b, tree, label, config); err != nil {
		T().Errorf("termview: %v", err)
	}
	return b.String()
}

func (p *printer[T]) node(id objtree.NodeID, lead, childLead string, isRoot bool) error {
	text, borrowed, err := p.text(id)
	if err != nil {
		return err
	}
	if limit := p.config.LineWidth; limit > 0 {
		room := limit - displayWidth(lead, p.config.Context)
		text = truncate(text, room, p.config.Context)
	}
	p.write(p.colors.lines, lead)
	switch {
	case borrowed:
		p.write(p.colors.borrowed, text)
	case isRoot:
		p.write(p.colors.root, text)
	default:
		p.write(nil, text)
	}
	p.write(nil, "\n")
	children, err := p.tree.ChildrenOf(id)
	if err != nil {
		return err
	}
	for i, ch := range children {
		if i == len(children)-1 {
			err = p.node(ch, childLead+"└── ", childLead+"    ", false)
		} else {
			err = p.node(ch, childLead+"├── ", childLead+"│   ", false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *printer[T]) text(id objtree.NodeID) (string, bool, error) {
	var text string
	err := p.tree.View(id, func(r *objtree.Ref[T]) error {
		text = p.label(r.Value())
		return nil
	})
	if errors.Is(err, forest.ErrBorrowConflict) {
		return borrowedLabel, true, nil
	}
	// labels are single lines
	text = strings.ReplaceAll(text, "\n", " ")
	return text, false, err
}

func (p *printer[T]) write(c *color.Color, s string) {
	if p.err != nil || s == "" {
		return
	}
	if c == nil {
		_, p.err = io.WriteString(p.w, s)
		return
	}
	_, p.err = c.Fprint(p.w, s)
}

func displayWidth(s string, context *uax11.Context) int {
	return uax11.StringWidth(grapheme.StringFromString(s), context)
}

// truncate shortens s to at most width display cells, marking truncation with
// an ellipsis. Zero-width runes (combining marks) stay with their base.
func truncate(s string, width int, context *uax11.Context) string {
	if displayWidth(s, context) <= width {
		return s
	}
	if width <= 0 {
		return ""
	}
	var prefix []rune
	for _, r := range s {
		candidate := append(prefix, r)
		if displayWidth(string(candidate), context) > width-1 {
			break
		}
		prefix = candidate
	}
	return string(prefix) + "…"
}
