/*
Package yamltree loads YAML documents into an object tree and writes them back.

Mappings and sequences become inner nodes, scalars become leaves. Mapping keys
are not separate nodes; every child of a mapping carries its key in Node.Key,
with the key's tag in Node.KeyTag. Only scalar keys are supported.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package yamltree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forest'.
func tracer() tracing.Trace {
	return tracing.Select("forest")
}
