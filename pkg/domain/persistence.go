package domain

import "context"

// Snapshot is the full id-to-record document written on every committed
// mutation and read once at load.
type Snapshot struct {
	Tags map[string]Tag `json:"tags"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cp := Snapshot{Tags: make(map[string]Tag, len(s.Tags))}
	for id, tag := range s.Tags {
		cp.Tags[id] = tag.Clone()
	}
	return cp
}

// SnapshotStore is the persistence adapter consumed by the collection. Load
// reports a missing document (false) distinctly from an empty one; Save
// replaces the document wholesale. Durability guarantees beyond a successful
// return (fsync timing, replication) belong to the adapter.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snapshot Snapshot) error
}
