package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// maxMetadataDepth bounds nested maps inside a metadata bag.
const maxMetadataDepth = 8

// Metadata is the free-form bag attached to an interaction. Values are limited
// to strings, numbers, booleans and nested maps of the same. JSON encoding
// writes keys in sorted order, so a bag always serializes the same way.
type Metadata map[string]any

// Validate checks every value against the permitted types.
func (m Metadata) Validate() error {
	return validateMetadata(m, "metadata", 0)
}

func validateMetadata(m map[string]any, path string, depth int) error {
	if depth > maxMetadataDepth {
		return invalidField(path, fmt.Sprintf("is nested deeper than %d levels", maxMetadataDepth))
	}
	for key, value := range m {
		if key == "" {
			return invalidField(path, "contains an empty key")
		}
		field := path + "." + key
		switch v := value.(type) {
		case string, bool,
			float64, float32,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			json.Number:
		case map[string]any:
			if err := validateMetadata(v, field, depth+1); err != nil {
				return err
			}
		case Metadata:
			if err := validateMetadata(v, field, depth+1); err != nil {
				return err
			}
		case nil:
			return invalidField(field, "is null")
		default:
			return invalidField(field, fmt.Sprintf("has unsupported type %T", value))
		}
	}
	return nil
}

// Value implements driver.Valuer so the bag can be stored in a text/JSON column.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return corruptField("metadata", fmt.Sprintf("cannot be scanned from %T", src))
	}
	return m.decode(raw)
}

func (m *Metadata) decode(raw []byte) error {
	decoded := Metadata{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return corruptField("metadata", fmt.Sprintf("is not valid JSON: %v", err))
		}
	}
	if decoded == nil {
		decoded = Metadata{}
	}
	*m = decoded
	return nil
}

// ParseMetadata decodes a stored JSON document into a bag.
func ParseMetadata(raw string) (Metadata, error) {
	var m Metadata
	if err := m.decode([]byte(raw)); err != nil {
		return nil, err
	}
	return m, nil
}
