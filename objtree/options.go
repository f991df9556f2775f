package objtree

import (
	"context"

	"github.com/npillmayer/forest/stable"
)

// Option configures a tree at construction time.
type Option func(*config)

type config struct {
	policy   stable.Policy
	events   bool
	eventCtx context.Context
}

// WithPolicy selects the borrow tracker implementation for the tree and all of
// its nodes. The default is stable.Local; stable.Synchronized allows handles of
// one tree to be used from different goroutines.
func WithPolicy(p stable.Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithEvents enables publishing of structural changes, see Tree.Subscribe.
// The event stream is closed when ctx is done or the tree is closed.
func WithEvents(ctx context.Context) Option {
	return func(c *config) {
		c.events = true
		c.eventCtx = ctx
	}
}
