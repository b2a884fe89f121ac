package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCreateCanonicalizesTimestamp(t *testing.T) {
	scanned := time.Date(2026, 5, 1, 12, 30, 45, 123456000, time.UTC)
	tag, err := ValidateCreate(Payload{
		"id":           "tag-1",
		"name":         "Mailbox",
		"description":  "NFC sticker on the mailbox",
		"last_scanned": scanned,
		"device_id":    "reader-1",
	})
	if err != nil {
		t.Fatalf("validate create: %v", err)
	}
	if tag.ID != "tag-1" || tag.Name != "Mailbox" {
		t.Fatalf("unexpected canonical record: %+v", tag)
	}
	if tag.LastScanned != "2026-05-01T12:30:45.123456Z" {
		t.Fatalf("unexpected canonical timestamp: %s", tag.LastScanned)
	}
	if tag.DeviceID == nil || *tag.DeviceID != "reader-1" {
		t.Fatalf("unexpected device id: %v", tag.DeviceID)
	}
}

func TestValidateCreateAcceptsTimestampText(t *testing.T) {
	tag, err := ValidateCreate(Payload{"last_scanned": "2026-05-01T14:30:45+02:00"})
	if err != nil {
		t.Fatalf("validate create: %v", err)
	}
	if tag.LastScanned != "2026-05-01T12:30:45Z" {
		t.Fatalf("expected normalized UTC text, got %s", tag.LastScanned)
	}
}

func TestValidateCreateRejectsUnknownField(t *testing.T) {
	_, err := ValidateCreate(Payload{"color": "blue"})
	var verr ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "color" || verr.Reason != "unknown field" {
		t.Fatalf("unexpected violation: %+v", verr)
	}
}

func TestValidateCreateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name    string
		payload Payload
		field   string
	}{
		{"empty name", Payload{"name": ""}, "name"},
		{"numeric name", Payload{"name": 7}, "name"},
		{"numeric id", Payload{"id": 7}, "id"},
		{"numeric description", Payload{"description": 7}, "description"},
		{"numeric device", Payload{"device_id": 7}, "device_id"},
		{"garbage timestamp", Payload{"last_scanned": "yesterday"}, "last_scanned"},
		{"numeric timestamp", Payload{"last_scanned": 1700000000}, "last_scanned"},
	}
	for _, tc := range cases {
		_, err := ValidateCreate(tc.payload)
		var verr ErrValidation
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
	}
}

func TestValidateCreateAllowsEmptyDeviceSentinel(t *testing.T) {
	tag, err := ValidateCreate(Payload{"device_id": ""})
	if err != nil {
		t.Fatalf("validate create: %v", err)
	}
	if tag.DeviceID == nil || *tag.DeviceID != "" {
		t.Fatalf("expected empty device sentinel, got %v", tag.DeviceID)
	}
}

func TestValidateUpdateMergesOntoCopy(t *testing.T) {
	device := "reader-1"
	existing := Tag{
		ID:          "tag-1",
		Name:        "Mailbox",
		Description: "original",
		LastScanned: "2026-05-01T12:30:45Z",
		DeviceID:    &device,
	}
	merged, err := ValidateUpdate(existing, Payload{
		"last_scanned": "2026-05-02T08:00:00Z",
		"device_id":    "reader-2",
	})
	if err != nil {
		t.Fatalf("validate update: %v", err)
	}
	if merged.Name != "Mailbox" || merged.Description != "original" {
		t.Fatalf("expected untouched fields retained, got %+v", merged)
	}
	if merged.LastScanned != "2026-05-02T08:00:00Z" {
		t.Fatalf("expected patched timestamp, got %s", merged.LastScanned)
	}
	if *merged.DeviceID != "reader-2" {
		t.Fatalf("expected patched device, got %s", *merged.DeviceID)
	}
	if existing.LastScanned != "2026-05-01T12:30:45Z" || *existing.DeviceID != "reader-1" {
		t.Fatalf("expected existing record untouched, got %+v", existing)
	}
}

func TestValidateUpdateRejectsID(t *testing.T) {
	_, err := ValidateUpdate(Tag{ID: "tag-1"}, Payload{"id": "tag-2"})
	var verr ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != FieldID || verr.Reason != "immutable" {
		t.Fatalf("unexpected violation: %+v", verr)
	}
}

func TestValidateUpdateRejectsUnknownField(t *testing.T) {
	_, err := ValidateUpdate(Tag{ID: "tag-1"}, Payload{"nickname": "door"})
	var verr ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "nickname" {
		t.Fatalf("unexpected field: %s", verr.Field)
	}
}
