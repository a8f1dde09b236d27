package history

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// ErrAlreadyReturned is returned when an update would overwrite returned_at.
var ErrAlreadyReturned = errors.New("checkout record already returned")

// Field names accepted by Update. record_id, book_id and checkout_at are
// fixed at creation and ignored.
const (
	FieldReturnedAt = "returned_at"
	FieldUserID     = "user_id"
	FieldNotes      = "notes"
)

// Store is durable storage for checkout records.
type Store interface {
	// GetAll returns every record in store order.
	GetAll() ([]Record, error)
	// Add appends records and returns their IDs.
	Add(records ...Record) ([]string, error)
	// FindByBookID returns every record referencing bookID, open and closed.
	FindByBookID(bookID string) ([]Record, error)
	// FindByRecordID returns the record with id, if any.
	FindByRecordID(id string) (Record, bool, error)
	// Update applies a field mapping to one record. It reports false if no
	// record has that ID.
	Update(id string, fields map[string]any) (bool, error)
	// Delete removes a record. It reports false if no record has that ID.
	Delete(id string) (bool, error)
}

// FileStore is a Store backed by a single JSON file. A missing file reads as
// an empty history.
type FileStore struct {
	file *storage.File[Record]
	log  *zap.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store for the history file at path.
func NewFileStore(path string, log *zap.Logger, opts ...storage.Option) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("history")
	opts = append([]storage.Option{storage.WithLogger(log), storage.WithMissingOK()}, opts...)
	return &FileStore{
		file: storage.NewFile[Record](path, opts...).Repair(FillIDs),
		log:  log,
	}
}

// Path returns the history file path.
func (s *FileStore) Path() string {
	return s.file.Path()
}

// GetAll loads every record.
func (s *FileStore) GetAll() ([]Record, error) {
	return s.file.Load()
}

// Add appends records and rewrites the file.
func (s *FileStore) Add(records ...Record) ([]string, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to add", storage.ErrInvalidInput)
	}
	ids := make([]string, len(records))
	err := s.file.Modify(func(existing []Record) ([]Record, error) {
		seen := make(map[string]bool, len(existing)+len(records))
		for _, r := range existing {
			seen[r.ID] = true
		}
		for i := range records {
			r := records[i]
			if strings.TrimSpace(r.BookID) == "" {
				return nil, fmt.Errorf("%w: checkout record needs a book_id", storage.ErrInvalidInput)
			}
			if r.CheckoutAt.IsZero() {
				return nil, fmt.Errorf("%w: checkout record needs checkout_at", storage.ErrInvalidInput)
			}
			if r.ReturnedAt != nil && r.ReturnedAt.Before(r.CheckoutAt) {
				return nil, fmt.Errorf("%w: returned_at before checkout_at", storage.ErrInvalidInput)
			}
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			if seen[r.ID] {
				return nil, fmt.Errorf("%w: duplicate record_id %q", storage.ErrInvalidInput, r.ID)
			}
			seen[r.ID] = true
			ids[i] = r.ID
			existing = append(existing, r)
		}
		return existing, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("added checkout records", zap.Strings("ids", ids))
	return ids, nil
}

// FindByBookID returns the records for bookID in store order.
func (s *FileStore) FindByBookID(bookID string) ([]Record, error) {
	records, err := s.file.Load()
	if err != nil {
		return nil, err
	}
	return ForBook(records, bookID), nil
}

// FindByRecordID looks up one record.
func (s *FileStore) FindByRecordID(id string) (Record, bool, error) {
	records, err := s.file.Load()
	if err != nil {
		return Record{}, false, err
	}
	if i := indexOf(records, id); i >= 0 {
		return records[i], true, nil
	}
	return Record{}, false, nil
}

// Update applies fields to the record with id and rewrites the file.
// returned_at can be set once; a second attempt fails with ErrAlreadyReturned.
func (s *FileStore) Update(id string, fields map[string]any) (bool, error) {
	if fields == nil {
		return false, fmt.Errorf("%w: field mapping is nil", storage.ErrInvalidInput)
	}
	var found bool
	err := s.file.Modify(func(records []Record) ([]Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, storage.ErrSkipWrite
		}
		found = true
		updated := records[i]
		if err := applyFields(&updated, fields); err != nil {
			return nil, err
		}
		records[i] = updated
		return records, nil
	})
	if err != nil {
		return false, err
	}
	s.log.Debug("update checkout record", zap.String("record_id", id), zap.Bool("found", found))
	return found, nil
}

// Delete removes the record with id and rewrites the file.
func (s *FileStore) Delete(id string) (bool, error) {
	var removed bool
	err := s.file.Modify(func(records []Record) ([]Record, error) {
		i := indexOf(records, id)
		if i < 0 {
			return nil, storage.ErrSkipWrite
		}
		removed = true
		return append(records[:i], records[i+1:]...), nil
	})
	if err != nil {
		return false, err
	}
	s.log.Debug("delete checkout record", zap.String("record_id", id), zap.Bool("removed", removed))
	return removed, nil
}

func indexOf(records []Record, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func applyFields(r *Record, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		switch k {
		case FieldReturnedAt:
			at, err := toTime(v)
			if err != nil {
				return fmt.Errorf("%w: field %s: %v", storage.ErrInvalidInput, k, err)
			}
			if r.ReturnedAt != nil {
				return fmt.Errorf("%w: record %s returned at %s", ErrAlreadyReturned, r.ID, r.ReturnedAt.Format(time.RFC3339))
			}
			if at.Before(r.CheckoutAt) {
				return fmt.Errorf("%w: returned_at %s before checkout_at %s", storage.ErrInvalidInput,
					at.Format(time.RFC3339), r.CheckoutAt.Format(time.RFC3339))
			}
			r.ReturnedAt = &at
		case FieldUserID, FieldNotes:
			s, err := cast.ToStringE(v)
			if err != nil {
				return fmt.Errorf("%w: field %s: %v", storage.ErrInvalidInput, k, err)
			}
			if k == FieldUserID {
				r.UserID = s
			} else {
				r.Notes = s
			}
		}
	}
	return nil
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, errors.New("returned_at cannot be cleared")
		}
		return t.UTC(), nil
	case string:
		return storage.ParseTime(t)
	case nil:
		return time.Time{}, errors.New("returned_at cannot be cleared")
	}
	t, err := cast.ToTimeE(v)
	return t.UTC(), err
}
