// Package schema exposes embedded snapshot-document schema metadata (version) for runtime use.
package schema

import (
	_ "embed"
	"encoding/json"
	"sort"
	"sync"
)

// Metadata captures the high-level metadata block from the canonical
// snapshot-document JSON.
type Metadata struct {
	Source string `json:"source"`
	Status string `json:"status"`
}

type schemaDoc struct {
	Version     string   `json:"version"`
	Metadata    Metadata `json:"metadata"`
	Definitions struct {
		Tag struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"tag"`
	} `json:"definitions"`
}

// Canonical snapshot-document schema embedded for runtime metadata exposure.
//
//go:embed tag-snapshot.schema.json
var snapshotSchema []byte

var (
	docOnce sync.Once
	doc     schemaDoc
	docErr  error
)

func load() (schemaDoc, error) {
	docOnce.Do(func() {
		docErr = json.Unmarshal(snapshotSchema, &doc)
	})
	return doc, docErr
}

// SnapshotSchemaVersion returns the canonical schema version declared in the
// snapshot document (source of truth: docs/schema/tag-snapshot.schema.json).
func SnapshotSchemaVersion() (string, error) {
	d, err := load()
	if err != nil {
		return "", err
	}
	return d.Version, nil
}

// SnapshotSchemaMetadata returns the schema metadata (status, source) declared
// in the canonical snapshot-document JSON.
func SnapshotSchemaMetadata() (Metadata, error) {
	d, err := load()
	if err != nil {
		return Metadata{}, err
	}
	return d.Metadata, nil
}

// TagFieldNames returns the sorted JSON field names the schema declares for a
// persisted tag record.
func TagFieldNames() ([]string, error) {
	d, err := load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.Definitions.Tag.Properties))
	for name := range d.Definitions.Tag.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
