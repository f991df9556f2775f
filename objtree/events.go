package objtree

import (
	"context"
	"fmt"

	"github.com/npillmayer/forest"
)

// EventKind classifies structural changes of a tree.
type EventKind int

const (
	// Inserted is published after a node has been inserted.
	Inserted EventKind = iota
	// Removed is published after a subtree has been removed.
	Removed
	// Reparented is published after a subtree has been moved.
	Reparented
)

func (k EventKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	case Reparented:
		return "reparented"
	}
	return "unknown-event"
}

// Event describes a committed structural change.
//
// Node is the inserted, removed or moved node. Parent is its (new) parent; for
// removals it is the former parent of the removed subtree. OldParent is set for
// Reparented only.
type Event struct {
	Kind      EventKind
	Node      NodeID
	Parent    NodeID
	OldParent NodeID
}

func (e Event) String() string {
	if e.Kind == Reparented {
		return fmt.Sprintf("%s %s: %s -> %s", e.Kind, e.Node, e.OldParent, e.Parent)
	}
	return fmt.Sprintf("%s %s @ %s", e.Kind, e.Node, e.Parent)
}

// publish broadcasts e to subscribers. Subscribers which cannot keep up miss
// events; a structural mutation never waits for a subscriber.
func (t *Tree[T]) publish(e Event) {
	if t.cast == nil {
		return
	}
	t.cast.TryPub(e)
}

// Subscribe returns a channel of structural change events. The tree must have
// been created with option WithEvents. The channel will be closed when ctx is
// done or the tree is closed. capacity is the number of events buffered for a
// slow subscriber before events get dropped.
func (t *Tree[T]) Subscribe(ctx context.Context, capacity uint) (<-chan Event, error) {
	if t.cast == nil {
		return nil, fmt.Errorf("%w: tree has been created without events", forest.ErrIllegalArguments)
	}
	src, ok := t.cast.Sub(ctx, capacity)
	if !ok {
		return nil, fmt.Errorf("%w: event stream is closed", forest.ErrIllegalArguments)
	}
	out := make(chan Event, capacity)
	go func() {
		defer close(out)
		for {
			select {
			case msg, ok := <-src:
				if !ok {
					return
				}
				e, ok := msg.(Event)
				if !ok {
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					t.cast.Unsub(src)
					return
				}
			case <-ctx.Done():
				t.cast.Unsub(src)
				return
			}
		}
	}()
	return out, nil
}

// Close shuts down the event stream of the tree, if any. The tree itself stays
// usable.
func (t *Tree[T]) Close() {
	if t.cast != nil {
		t.cast.Close()
	}
}
