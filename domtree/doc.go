/*
Package domtree loads HTML documents into an object tree.

Every node of the parsed document becomes a node of an objtree.Tree, carrying
a Node payload. The resulting tree is most similar to the DOM of the document,
with the difference that access to nodes is governed by borrow handles:

	tree, err := domtree.FromHTML(strings.NewReader(doc))
	...
	body, err := domtree.Find(tree, "body")
	...
	text, err := domtree.InnerText(tree, body)

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package domtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forest'.
func tracer() tracing.Trace {
	return tracing.Select("forest")
}
