// Package domain defines the tag record vocabulary shared across tagcore:
// the stored Tag type, payload validation, change notifications, the error
// taxonomy, and the snapshot persistence contract.
package domain

import "time"

// DefaultName labels tags that were created without an explicit name, such as
// records minted by a first scan.
const DefaultName = "Tag"

// Payload field names accepted by the schema validator.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldLastScanned = "last_scanned"
	FieldDeviceID    = "device_id"
)

// Tag is the stored unit of the collection: one physical NFC/QR identifier
// together with the metadata captured for it. The id is immutable after
// creation. LastScanned holds the canonical RFC 3339 text produced by the
// validator. DeviceID distinguishes "no device" (empty string) from never
// scanned (nil).
type Tag struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	LastScanned string  `json:"last_scanned,omitempty"`
	DeviceID    *string `json:"device_id,omitempty"`
}

// Payload is the JSON-like field mapping accepted by create and update
// operations before validation produces a canonical Tag.
type Payload map[string]any

// DisplayName returns the human-readable label, falling back to DefaultName
// when the record carries none.
func (t Tag) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return DefaultName
}

// Clone returns a deep copy of the tag.
func (t Tag) Clone() Tag {
	cp := t
	if t.DeviceID != nil {
		device := *t.DeviceID
		cp.DeviceID = &device
	}
	return cp
}

// CanonicalTime renders a timestamp in the canonical stored form: RFC 3339
// with sub-second precision, normalized to UTC.
func CanonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a canonical last_scanned value.
func ParseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
