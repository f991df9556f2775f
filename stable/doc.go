/*
Package stable implements storage cells with runtime-checked borrows.

A Cell owns a single value together with a borrow tracker. The tracker is a
small state machine:

	idle ──TryShared──▶ shared(1) ──TryShared──▶ shared(n+1)
	  │                     ◀──ReleaseShared──
	  └──TryExclusive──▶ exclusive ──ReleaseExclusive──▶ idle

Any number of shared borrows may co-exist, but an exclusive borrow excludes every
other borrow. Requests violating this are rejected, never blocked.

Trackers come in two flavours, selected by a Policy: plain counters (Local) for
single-goroutine use, and atomic counters (Synchronized) for cells shared between
goroutines.

Borrows are handed out as guards (Ref, Mut). A guard has to be released exactly
once; releasing is idempotent, so

	r, err := cell.TryBorrow()
	if err != nil {
	    return err
	}
	defer r.Release()

is always safe, even if r is released explicitly earlier.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package stable

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'forest'
func tracer() tracing.Trace {
	return tracing.Select("forest")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
