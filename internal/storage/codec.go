package storage

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
)

// JSON is the codec for every store file. The standard-library compatible
// config keeps custom UnmarshalJSON methods and field tags working.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse decodes a JSON array. Empty input decodes to an empty slice.
func Parse[T any](data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := JSON.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing JSON array: %w", err)
	}
	if items == nil {
		return []T{}, nil
	}
	return items, nil
}

// Marshal encodes items as an indented JSON array. A nil slice encodes as [].
func Marshal[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := JSON.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding JSON array: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseTime reads a stored timestamp. RFC 3339 is what Save writes; ISO 8601
// strings without a zone are accepted too and taken as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := cast.ToTimeInDefaultLocationE(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseOptionalTime is ParseTime for nullable fields. A nil or blank value
// yields nil.
func ParseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
