package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Record is one checkout of a book. It stays open until ReturnedAt is set.
type Record struct {
	ID         string     `json:"record_id" yaml:"record_id"`
	BookID     string     `json:"book_id" yaml:"book_id"`
	UserID     string     `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	CheckoutAt time.Time  `json:"checkout_at" yaml:"checkout_at"`
	ReturnedAt *time.Time `json:"returned_at" yaml:"returned_at,omitempty"`
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewRecord returns an open record for bookID checked out at the given time.
func NewRecord(bookID string, at time.Time) Record {
	return Record{
		ID:         uuid.NewString(),
		BookID:     bookID,
		CheckoutAt: at.UTC(),
	}
}

// Open reports whether the book has not been returned yet.
func (r Record) Open() bool {
	return r.ReturnedAt == nil
}

// UnmarshalJSON accepts RFC 3339 or zoneless ISO 8601 timestamps. Missing
// record IDs are filled by FillIDs.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		CheckoutAt string  `json:"checkout_at"`
		ReturnedAt *string `json:"returned_at"`
	}
	if err := storage.JSON.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Record(aux.plain)
	if aux.CheckoutAt != "" {
		at, err := storage.ParseTime(aux.CheckoutAt)
		if err != nil {
			return fmt.Errorf("checkout_at: %w", err)
		}
		r.CheckoutAt = at
	}
	ret, err := storage.ParseOptionalTime(aux.ReturnedAt)
	if err != nil {
		return fmt.Errorf("returned_at: %w", err)
	}
	r.ReturnedAt = ret
	return nil
}

// FillIDs gives every record without a record_id a new one and reports
// whether any was assigned.
func FillIDs(records []Record) bool {
	changed := false
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
			changed = true
		}
	}
	return changed
}

// Parse decodes a history file. Records without a record_id get one.
func Parse(data []byte) ([]Record, error) {
	records, err := storage.Parse[Record](data)
	if err != nil {
		return nil, err
	}
	FillIDs(records)
	return records, nil
}

// Marshal encodes records as an indented JSON array.
func Marshal(records []Record) ([]byte, error) {
	return storage.Marshal(records)
}

// ForBook returns the records referencing bookID, in store order.
func ForBook(records []Record, bookID string) []Record {
	out := []Record{}
	for _, r := range records {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out
}

// OpenOnly returns the records that have not been returned.
func OpenOnly(records []Record) []Record {
	out := []Record{}
	for _, r := range records {
		if r.Open() {
			out = append(out, r)
		}
	}
	return out
}

// LatestOpen picks the open record with the latest checkout time. Among
// records sharing that time the first in store order wins.
func LatestOpen(records []Record) (Record, bool) {
	var (
		best  Record
		found bool
	)
	for _, r := range records {
		if !r.Open() {
			continue
		}
		if !found || r.CheckoutAt.After(best.CheckoutAt) {
			best, found = r, true
		}
	}
	return best, found
}
