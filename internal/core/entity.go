package core

import (
	"strings"

	"tagcore/pkg/domain"
)

// stateTimeLayout renders timestamps with millisecond precision, matching the
// externally published entity state format.
const stateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

const entityIDPrefix = "tag."

// AttrTagID and AttrDeviceID name the published entity attributes.
const (
	AttrTagID    = "tag_id"
	AttrDeviceID = "device_id"
)

// EntityID derives the published entity identifier from the tag's display
// name. Records without a name fall back to the default display name.
func EntityID(tag domain.Tag) string {
	return entityIDPrefix + slugify(tag.DisplayName())
}

// EntityStateValue renders the tag's last scan as a millisecond-precision
// UTC timestamp. It returns nil when the tag was never scanned or the stored
// timestamp cannot be parsed.
func EntityStateValue(tag domain.Tag) *string {
	if tag.LastScanned == "" {
		return nil
	}
	scanned, err := domain.ParseTime(tag.LastScanned)
	if err != nil {
		return nil
	}
	value := scanned.UTC().Format(stateTimeLayout)
	return &value
}

// EntityAttributes assembles the published attributes. The tag id is always
// present; the device id appears once a scan has associated one, including
// the empty sentinel for scans without a device.
func EntityAttributes(tag domain.Tag) map[string]string {
	attrs := map[string]string{AttrTagID: tag.ID}
	if tag.DeviceID != nil {
		attrs[AttrDeviceID] = *tag.DeviceID
	}
	return attrs
}

// ProjectEntity assembles the full entity state published for a tag under the
// given entity id.
func ProjectEntity(entityID string, tag domain.Tag) EntityState {
	return EntityState{
		EntityID:   entityID,
		State:      EntityStateValue(tag),
		Attributes: EntityAttributes(tag),
	}
}

// slugify lowercases the input and collapses every run of characters outside
// [a-z0-9] into a single underscore.
func slugify(input string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(input) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
