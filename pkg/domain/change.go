package domain

import "context"

// ChangeKind labels the mutation delivered to collection listeners.
type ChangeKind string

// Mutation kinds carried by change notifications.
const (
	// ChangeCreated indicates a record was inserted.
	ChangeCreated ChangeKind = "created"
	// ChangeUpdated indicates an existing record was replaced.
	ChangeUpdated ChangeKind = "updated"
	// ChangeRemoved indicates a record was deleted; the change carries its
	// last stored version.
	ChangeRemoved ChangeKind = "removed"
)

// Change describes one committed mutation: the kind and the affected record.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Tag  Tag        `json:"tag"`
}

// Listener receives committed mutations in registration order. By the time a
// listener runs, the mutation is already durable; a listener error surfaces
// to the caller that triggered the change but does not undo it.
type Listener interface {
	Notify(ctx context.Context, change Change) error
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(ctx context.Context, change Change) error

// Notify dispatches to the underlying function.
func (fn ListenerFunc) Notify(ctx context.Context, change Change) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, change)
}
