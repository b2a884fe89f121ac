package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	core "tagcore/internal/core"
	"tagcore/internal/infra/persistence/file"
)

// TestIntegrationEntityLifecycle drives one tag through first scan, rename,
// re-scan, restart, and removal on a shared on-disk snapshot, checking the
// published entity at every step.
func TestIntegrationEntityLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tags.json")

	now := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	clock := core.ClockFunc(func() time.Time { return now })

	open := func(t *testing.T) (*core.Service, *core.MemoryStateSink) {
		store, err := file.NewStore(path)
		if err != nil {
			t.Fatalf("new file store: %v", err)
		}
		sink := core.NewMemoryStateSink()
		svc := core.NewService(
			core.NewStore(store),
			core.WithStateSink(sink),
			core.WithClock(clock),
		)
		if _, err := svc.Load(ctx); err != nil {
			t.Fatalf("load: %v", err)
		}
		return svc, sink
	}

	svc, sink := open(t)

	// A scan of an unknown id mints the record and its entity in one step. The
	// record has no name yet, so the entity id falls back to the default label.
	tag, err := svc.Scan(ctx, "badge-1", "")
	if err != nil {
		t.Fatalf("scan new tag: %v", err)
	}
	if tag.DeviceID == nil || *tag.DeviceID != "" {
		t.Fatalf("expected empty-string device sentinel, got %+v", tag.DeviceID)
	}
	state, ok := sink.Get("tag.tag")
	if !ok {
		t.Fatalf("expected entity tag.tag, states=%+v", sink.States())
	}
	if state.State == nil || *state.State != "2026-01-05T08:00:00.000Z" {
		t.Fatalf("unexpected entity state %+v", state.State)
	}
	if state.Attributes[core.AttrDeviceID] != "" {
		t.Fatalf("expected empty device attribute, got %+v", state.Attributes)
	}

	// Renaming the record keeps the entity id it claimed at creation and does
	// not republish: the last scan did not move.
	published := len(sink.History())
	if _, err := svc.UpdateTag(ctx, "badge-1", map[string]any{"name": "Gate Badge"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := len(sink.History()); got != published {
		t.Fatalf("expected rename to be suppressed, history grew %d -> %d", published, got)
	}
	if _, ok := sink.Get("tag.tag"); !ok {
		t.Fatalf("expected entity id to survive rename, states=%+v", sink.States())
	}

	// A later scan republishes the same entity with the new timestamp and the
	// scanning device.
	now = now.Add(5 * time.Minute)
	if _, err := svc.Scan(ctx, "badge-1", "gate-reader"); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	state, ok = sink.Get("tag.tag")
	if !ok {
		t.Fatalf("expected entity tag.tag after second scan")
	}
	if state.State == nil || *state.State != "2026-01-05T08:05:00.000Z" {
		t.Fatalf("unexpected entity state after second scan %+v", state.State)
	}
	if state.Attributes[core.AttrDeviceID] != "gate-reader" {
		t.Fatalf("expected device gate-reader, got %+v", state.Attributes)
	}

	// A restart hydrates from the persisted snapshot. The entity id is derived
	// anew from the stored display name, so the renamed record now appears
	// under its slug.
	svc2, sink2 := open(t)
	if _, ok := sink2.Get("tag.gate_badge"); !ok {
		t.Fatalf("expected hydrated entity tag.gate_badge, states=%+v", sink2.States())
	}
	state, _ = sink2.Get("tag.gate_badge")
	if state.State == nil || *state.State != "2026-01-05T08:05:00.000Z" {
		t.Fatalf("hydrated state lost the last scan: %+v", state.State)
	}
	if state.Attributes[core.AttrTagID] != "badge-1" || state.Attributes[core.AttrDeviceID] != "gate-reader" {
		t.Fatalf("unexpected hydrated attributes %+v", state.Attributes)
	}

	// Deleting the record destroys its entity.
	if err := svc2.DeleteTag(ctx, "badge-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if states := sink2.States(); len(states) != 0 {
		t.Fatalf("expected no entities after delete, got %+v", states)
	}

	// The snapshot on disk reflects the removal for the next restart.
	svc3, sink3 := open(t)
	if tags := svc3.ListTags(); len(tags) != 0 {
		t.Fatalf("expected empty collection after delete, got %+v", tags)
	}
	if states := sink3.States(); len(states) != 0 {
		t.Fatalf("expected no hydrated entities, got %+v", states)
	}
}
