package domain

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned when an operation runs before the collection has
// been loaded from its snapshot store.
var ErrNotLoaded = errors.New("tag collection has not been loaded")

// ErrIDConflict reports a create with an explicit id that is already taken.
type ErrIDConflict struct {
	ID string
}

func (e ErrIDConflict) Error() string {
	return fmt.Sprintf("tag %q already exists", e.ID)
}

// ErrNotFound reports an update or delete against an unknown id.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("tag %q not found", e.ID)
}

// ErrValidation reports a payload field that failed schema constraints. The
// payload is rejected before any mutation happens.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
