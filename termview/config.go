package termview

import (
	"os"

	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// Config holds parameters for printing trees.
type Config struct {
	LineWidth int            // maximum line width in display cells, 0 for unlimited
	Color     bool           // use ANSI colors
	Context   *uax11.Context // context for display width calculation
}

// DefaultConfig is used whenever a nil config is passed.
func DefaultConfig() *Config {
	return &Config{
		LineWidth: 80,
		Context:   uax11.LatinContext,
	}
}

// ConfigFromTerminal is a simple helper for creating a printing Config.
// It checks wether stdout is a terminal, and if so it reads the terminal's width
// and sets Config.LineWidth accordingly. Colors are enabled for terminals only.
func ConfigFromTerminal() *Config {
	config := &Config{
		Context: uax11.ContextFromEnvironment(),
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		config.Color = true
		w, _, err := term.GetSize(fd)
		if err != nil || w <= 0 {
			config.LineWidth = 80
		} else if w > 20 {
			config.LineWidth = w - 1
		} else {
			config.LineWidth = 20
		}
	} else {
		config.LineWidth = 0
	}
	T().P("print", "console").Infof("setting line length to %d en", config.LineWidth)
	return config
}
