package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"tagcore/pkg/domain"
)

// stubConn implements just enough of database/sql/driver to stand in for a
// Postgres server: ping, DDL, the bucket upsert, and the bucket select.
type stubConn struct {
	payloads map[string][]byte
	execs    []string
	failPing bool
}

func newStubDB(conn *stubConn) *sql.DB {
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db
}

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("not implemented")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) { return nil, fmt.Errorf("not implemented") }

func (c *stubConn) Ping(context.Context) error {
	if c.failPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	if strings.HasPrefix(query, "INSERT INTO state") {
		bucket, _ := args[0].Value.(string)
		payload, _ := args[1].Value.([]byte)
		if c.payloads == nil {
			c.payloads = map[string][]byte{}
		}
		c.payloads[bucket] = append([]byte(nil), payload...)
	}
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if !strings.HasPrefix(query, "SELECT payload FROM state") {
		return nil, fmt.Errorf("unexpected query %q", query)
	}
	bucket, _ := args[0].Value.(string)
	rows := &stubRows{cols: []string{"payload"}}
	if payload, ok := c.payloads[bucket]; ok {
		rows.data = [][]driver.Value{{append([]byte(nil), payload...)}}
	}
	return rows, nil
}

type stubRows struct {
	cols []string
	data [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.idx])
	r.idx++
	return nil
}

func openStubStore(t *testing.T, conn *stubConn) *Store {
	t.Helper()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return newStubDB(conn), nil })
	t.Cleanup(restore)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	conn := &stubConn{}
	openStubStore(t, conn)
	var sawDDL bool
	for _, stmt := range conn.execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
			break
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.execs)
	}
}

func TestNewStorePingFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return newStubDB(&stubConn{failPing: true}), nil
	})
	t.Cleanup(restore)
	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestLoadReportsMissingDocument(t *testing.T) {
	store := openStubStore(t, &stubConn{})
	_, ok, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing document before first save")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	conn := &stubConn{}
	store := openStubStore(t, conn)
	ctx := context.Background()
	device := "reader-1"
	saved := domain.Snapshot{Tags: map[string]domain.Tag{
		"tag-1": {ID: "tag-1", Name: "Kitchen", DeviceID: &device},
	}}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := conn.payloads["tags"]; !ok {
		t.Fatalf("expected tags bucket upsert, got %v", conn.execs)
	}
	loaded, ok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected document after save")
	}
	got := loaded.Tags["tag-1"]
	if got.Name != "Kitchen" {
		t.Fatalf("unexpected tag %+v", got)
	}
	if got.DeviceID == nil || *got.DeviceID != "reader-1" {
		t.Fatalf("device id lost: %v", got.DeviceID)
	}
}
