package core

import (
	"fmt"
	"os"

	"tagcore/internal/infra/persistence/file"
	"tagcore/internal/infra/persistence/memory"
	"tagcore/internal/infra/persistence/postgres"
	"tagcore/internal/infra/persistence/sqlite"
	"tagcore/pkg/domain"
)

// StorageDriver identifies a concrete snapshot persistence implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageFile     StorageDriver = "file"     // single JSON document on disk
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenSnapshotStore selects a snapshot backend using environment variables.
// Defaults to sqlite when unset.
//
//	TAGCORE_STORAGE_DRIVER: memory|file|sqlite|postgres (default sqlite)
//	TAGCORE_FILE_PATH: path to the JSON document (default ./tagcore_tags.json)
//	TAGCORE_SQLITE_PATH: path to the sqlite file (default ./tagcore.db)
//	TAGCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenSnapshotStore() (domain.SnapshotStore, error) {
	driver := os.Getenv("TAGCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageFile:
		return file.NewStore(os.Getenv("TAGCORE_FILE_PATH"))
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("TAGCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("TAGCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// NewInMemoryService wires a service to a fresh in-memory snapshot store.
// Load must still run before mutations are accepted.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(NewStore(memory.NewStore()), opts...)
}
