/*
Package termview prints trees to a console.

Output is one node per line, indented with box-drawing connectors:

	R
	├── C1
	│   └── G
	└── C2

Labels are truncated to the available line width, measured in display cells
(East Asian wide characters count double). Nodes which are currently borrowed
for writing cannot be read and are printed as “(borrowed)”.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package termview

import (
	"github.com/npillmayer/forest"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the global core tracer.
func T() tracing.Trace {
	return forest.T()
}
