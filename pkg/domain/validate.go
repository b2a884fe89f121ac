package domain

import "time"

// ValidateCreate checks a create payload against the tag schema and returns
// the canonical record. Unknown fields are rejected. The id passes through
// untouched (empty when the caller wants one generated); uniqueness is the
// allocator's concern, not the validator's.
func ValidateCreate(payload Payload) (Tag, error) {
	for field := range payload {
		switch field {
		case FieldID, FieldName, FieldDescription, FieldLastScanned, FieldDeviceID:
		default:
			return Tag{}, ErrValidation{Field: field, Reason: "unknown field"}
		}
	}
	var tag Tag
	if raw, ok := payload[FieldID]; ok {
		id, ok := raw.(string)
		if !ok {
			return Tag{}, ErrValidation{Field: FieldID, Reason: "must be a string"}
		}
		tag.ID = id
	}
	if err := applyFields(&tag, payload); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

// ValidateUpdate checks a patch against the tag schema and merges it onto a
// copy of the existing record: patch fields overwrite, everything else is
// retained. The id is immutable and may not appear in the patch.
func ValidateUpdate(existing Tag, patch Payload) (Tag, error) {
	for field := range patch {
		switch field {
		case FieldName, FieldDescription, FieldLastScanned, FieldDeviceID:
		case FieldID:
			return Tag{}, ErrValidation{Field: FieldID, Reason: "immutable"}
		default:
			return Tag{}, ErrValidation{Field: field, Reason: "unknown field"}
		}
	}
	merged := existing.Clone()
	if err := applyFields(&merged, patch); err != nil {
		return Tag{}, err
	}
	return merged, nil
}

func applyFields(tag *Tag, payload Payload) error {
	if raw, ok := payload[FieldName]; ok {
		name, ok := raw.(string)
		if !ok {
			return ErrValidation{Field: FieldName, Reason: "must be a string"}
		}
		if name == "" {
			return ErrValidation{Field: FieldName, Reason: "must not be empty"}
		}
		tag.Name = name
	}
	if raw, ok := payload[FieldDescription]; ok {
		description, ok := raw.(string)
		if !ok {
			return ErrValidation{Field: FieldDescription, Reason: "must be a string"}
		}
		tag.Description = description
	}
	if raw, ok := payload[FieldLastScanned]; ok {
		canonical, err := canonicalScanTime(raw)
		if err != nil {
			return err
		}
		tag.LastScanned = canonical
	}
	if raw, ok := payload[FieldDeviceID]; ok {
		device, ok := raw.(string)
		if !ok {
			return ErrValidation{Field: FieldDeviceID, Reason: "must be a string"}
		}
		tag.DeviceID = &device
	}
	return nil
}

func canonicalScanTime(value any) (string, error) {
	switch v := value.(type) {
	case time.Time:
		return CanonicalTime(v), nil
	case string:
		parsed, err := ParseTime(v)
		if err != nil {
			return "", ErrValidation{Field: FieldLastScanned, Reason: "not a valid timestamp"}
		}
		return CanonicalTime(parsed), nil
	default:
		return "", ErrValidation{Field: FieldLastScanned, Reason: "must be a timestamp"}
	}
}
