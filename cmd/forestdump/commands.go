package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/forest"
	"github.com/npillmayer/forest/domtree"
	"github.com/npillmayer/forest/objtree"
	"github.com/npillmayer/forest/termview"
	"github.com/npillmayer/forest/yamltree"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

// options are the flags shared by all sub-commands.
type options struct {
	dot     bool
	trace   string
	noColor bool
	width   int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "forestdump",
		Short:         "Print HTML or YAML documents as object trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupTracing(opts.trace)
		},
	}
	flags := root.PersistentFlags()
	flags.BoolVar(&opts.dot, "dot", false, "output Graphviz DOT instead of text")
	flags.StringVar(&opts.trace, "trace", "error", "trace level (error, info, debug)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.IntVar(&opts.width, "width", -1, "maximum line width, 0 for unlimited (default: terminal width)")

	root.AddCommand(&cobra.Command{
		Use:   "html FILE",
		Short: "Load an HTML document and print its DOM tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := load(args[0], func(r io.Reader) (*objtree.Tree[domtree.Node], error) {
				return domtree.FromHTML(r)
			})
			if err != nil {
				return err
			}
			return dump(cmd.OutOrStdout(), tree, domtree.Label, opts)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "yaml FILE",
		Short: "Load a YAML document and print its node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := load(args[0], func(r io.Reader) (*objtree.Tree[yamltree.Node], error) {
				return yamltree.FromYAML(r)
			})
			if err != nil {
				return err
			}
			return dump(cmd.OutOrStdout(), tree, yamltree.Label, opts)
		},
	})
	return root
}

func setupTracing(level string) error {
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "error", "":
		l = tracing.LevelError
	case "info":
		l = tracing.LevelInfo
	case "debug":
		l = tracing.LevelDebug
	default:
		return fmt.Errorf("%w: unknown trace level %q", forest.ErrIllegalArguments, level)
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(l)
	return nil
}

// load reads a document from a file, or from stdin if path is "-".
func load[T any](path string, parse func(io.Reader) (*objtree.Tree[T], error)) (*objtree.Tree[T], error) {
	if path == "-" {
		return parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tree, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	forest.T().Infof("loaded %s: %d nodes", path, tree.Len())
	return tree, nil
}

func dump[T any](w io.Writer, tree *objtree.Tree[T], label func(T) string, opts *options) error {
	if opts.dot {
		return tree.WriteDot(w, label)
	}
	config := termview.ConfigFromTerminal()
	if opts.noColor {
		config.Color = false
	}
	if opts.width >= 0 {
		config.LineWidth = opts.width
	}
	return termview.Fprint(w, tree, label, config)
}
