package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Field names accepted by ApplyFields, matching the JSON keys.
const (
	FieldID              = "book_id"
	FieldTitle           = "title"
	FieldAuthor          = "author"
	FieldGenre           = "genre"
	FieldPriceUSD        = "price_usd"
	FieldAverageRating   = "average_rating"
	FieldRatingsCount    = "ratings_count"
	FieldPublicationYear = "publication_year"
	FieldAvailable       = "available"
	FieldLastCheckout    = "last_checkout"
)

type fieldSetter func(b *Book, v any) error

var setters = map[string]fieldSetter{
	FieldTitle: func(b *Book, v any) error {
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("title must not be empty")
		}
		b.Title = s
		return nil
	},
	FieldAuthor: func(b *Book, v any) error {
		s, err := cast.ToStringE(v)
		b.Author = s
		return err
	},
	FieldGenre: func(b *Book, v any) error {
		s, err := cast.ToStringE(v)
		b.Genre = s
		return err
	},
	FieldPriceUSD: func(b *Book, v any) (err error) {
		b.PriceUSD, err = optionalFloat(v)
		return err
	},
	FieldAverageRating: func(b *Book, v any) (err error) {
		b.AverageRating, err = optionalFloat(v)
		return err
	},
	FieldRatingsCount: func(b *Book, v any) (err error) {
		b.RatingsCount, err = optionalInt(v)
		return err
	},
	FieldPublicationYear: func(b *Book, v any) (err error) {
		b.PublicationYear, err = optionalInt(v)
		return err
	},
	FieldAvailable: func(b *Book, v any) error {
		ok, err := cast.ToBoolE(v)
		b.Available = ok
		return err
	},
	FieldLastCheckout: func(b *Book, v any) (err error) {
		b.LastCheckout, err = optionalTime(v)
		return err
	},
}

// FieldNames lists the updatable fields in sorted order.
func FieldNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyFields sets every known field in fields on b, converting values to the
// field's type. book_id and unknown keys are ignored. Keys are applied in
// sorted order so a failing conversion is reported deterministically; on
// error b may be partially updated and the caller should discard it.
func ApplyFields(b *Book, fields map[string]any) error {
	if fields == nil {
		return fmt.Errorf("%w: field mapping is nil", storage.ErrInvalidInput)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		set, known := setters[k]
		if !known {
			continue
		}
		if err := set(b, fields[k]); err != nil {
			return fmt.Errorf("%w: field %s: %v", storage.ErrInvalidInput, k, err)
		}
	}
	return nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func optionalFloat(v any) (*float64, error) {
	if isBlank(v) {
		return nil, nil
	}
	if p, ok := v.(*float64); ok {
		return p, nil
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func optionalInt(v any) (*int, error) {
	if isBlank(v) {
		return nil, nil
	}
	if p, ok := v.(*int); ok {
		return p, nil
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return nil, fmt.Errorf("%v is not a whole number", n)
		}
		i := int(n)
		return &i, nil
	case string:
		v = strings.TrimLeft(strings.TrimSpace(n), "0")
		if v == "" {
			v = "0"
		}
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func optionalTime(v any) (*time.Time, error) {
	if isBlank(v) {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		t = t.UTC()
		return &t, nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		u := t.UTC()
		return &u, nil
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
