package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"tagcore/internal/blob/core"
)

func TestStorePutGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New()
	info, err := store.Put(ctx, "snapshots/a.json", bytes.NewReader([]byte("body")), core.PutOptions{ContentType: "application/json"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 4 || info.ContentType != "application/json" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "snapshots/a.json", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate failure")
	}
	_, rc, err := store.Get(ctx, "snapshots/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "body" {
		t.Fatalf("unexpected body %q", b)
	}
	ok, err := store.Delete(ctx, "snapshots/a.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, _, err := store.Get(ctx, "snapshots/a.json"); err == nil {
		t.Fatalf("expected missing blob after delete")
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := New()
	for _, key := range []string{"snapshots/a.json", "snapshots/b.json", "other/c.json"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("x")), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	list, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Key != "snapshots/a.json" || list[1].Key != "snapshots/b.json" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestPresignUnsupported(t *testing.T) {
	if _, err := New().PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
