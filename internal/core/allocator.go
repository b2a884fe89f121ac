package core

import "github.com/google/uuid"

// IDAllocator issues identifiers for tags created without a caller-supplied id.
// The taken predicate reports membership in the live collection, so generated
// ids are guaranteed fresh at allocation time.
type IDAllocator struct {
	taken    func(id string) bool
	generate func() string
}

// NewIDAllocator constructs an allocator backed by random UUIDs. taken may be
// nil, in which case every generated id is considered fresh.
func NewIDAllocator(taken func(id string) bool) *IDAllocator {
	return &IDAllocator{taken: taken, generate: uuid.NewString}
}

// Has reports whether id is already in use.
func (a *IDAllocator) Has(id string) bool {
	return a.taken != nil && a.taken(id)
}

// Generate returns an id that does not collide with any id currently in use.
func (a *IDAllocator) Generate() string {
	for {
		id := a.generate()
		if !a.Has(id) {
			return id
		}
	}
}
