package catalog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Store is durable keyed storage for books.
type Store interface {
	// GetAll returns every book in store order.
	GetAll() ([]Book, error)
	// Add appends books and returns their IDs. Books without an ID get one.
	Add(books ...Book) ([]string, error)
	// FindByTitle returns books whose title contains query, ignoring case.
	FindByTitle(query string) ([]Book, error)
	// Delete removes a book. It reports false if no book has that ID.
	Delete(id string) (bool, error)
	// Update applies a field mapping to one book. It reports false if no
	// book has that ID.
	Update(id string, fields map[string]any) (bool, error)
}

// FileStore is a Store backed by a single JSON file.
type FileStore struct {
	file *storage.File[Book]
	log  *zap.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store for the books file at path. A missing file is
// reported as storage.ErrUnavailable; call Ensure to create it.
func NewFileStore(path string, log *zap.Logger, opts ...storage.Option) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("books")
	opts = append([]storage.Option{storage.WithLogger(log)}, opts...)
	return &FileStore{
		file: storage.NewFile[Book](path, opts...).Repair(FillIDs),
		log:  log,
	}
}

// Path returns the books file path.
func (s *FileStore) Path() string {
	return s.file.Path()
}

// Ensure creates an empty books file if none exists.
func (s *FileStore) Ensure() error {
	return s.file.Ensure()
}

// GetAll loads every book.
func (s *FileStore) GetAll() ([]Book, error) {
	return s.file.Load()
}

// Add appends books and rewrites the file.
func (s *FileStore) Add(books ...Book) ([]string, error) {
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: no books to add", storage.ErrInvalidInput)
	}
	ids := make([]string, len(books))
	err := s.file.Modify(func(existing []Book) ([]Book, error) {
		seen := make(map[string]bool, len(existing)+len(books))
		for _, b := range existing {
			seen[b.ID] = true
		}
		for i := range books {
			b := books[i]
			if err := Validate(b); err != nil {
				return nil, err
			}
			if b.ID == "" {
				b.ID = NewID()
			}
			if seen[b.ID] {
				return nil, fmt.Errorf("%w: duplicate book_id %q", storage.ErrInvalidInput, b.ID)
			}
			seen[b.ID] = true
			ids[i] = b.ID
			existing = append(existing, b)
		}
		return existing, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("added books", zap.Strings("ids", ids))
	return ids, nil
}

// FindByTitle returns books whose title contains query, ignoring case.
// An empty query matches every book.
func (s *FileStore) FindByTitle(query string) ([]Book, error) {
	books, err := s.file.Load()
	if err != nil {
		return nil, err
	}
	return Filter{Title: query}.Apply(books), nil
}

// Delete removes the book with id and rewrites the file.
func (s *FileStore) Delete(id string) (bool, error) {
	var removed bool
	err := s.file.Modify(func(books []Book) ([]Book, error) {
		books, removed = Remove(books, id)
		if !removed {
			return nil, storage.ErrSkipWrite
		}
		return books, nil
	})
	if err != nil {
		return false, err
	}
	s.log.Debug("delete book", zap.String("book_id", id), zap.Bool("removed", removed))
	return removed, nil
}

// Update applies fields to the book with id and rewrites the file.
func (s *FileStore) Update(id string, fields map[string]any) (bool, error) {
	if fields == nil {
		return false, fmt.Errorf("%w: field mapping is nil", storage.ErrInvalidInput)
	}
	var found bool
	err := s.file.Modify(func(books []Book) ([]Book, error) {
		b := ByID(books, id)
		if b == nil {
			return nil, storage.ErrSkipWrite
		}
		found = true
		updated := *b
		if err := ApplyFields(&updated, fields); err != nil {
			return nil, err
		}
		*b = updated
		return books, nil
	})
	if err != nil {
		return false, err
	}
	s.log.Debug("update book", zap.String("book_id", id), zap.Bool("found", found), zap.Int("fields", len(fields)))
	return found, nil
}

// Validate checks the fields a stored book must carry.
func Validate(b Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: book title is required", storage.ErrInvalidInput)
	}
	return nil
}
