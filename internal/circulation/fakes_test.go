package circulation_test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/history"
	"github.com/blackwell-systems/libcat/internal/storage"
)

// memBooks is an in-memory catalog.Store.
type memBooks struct {
	mu    sync.Mutex
	books []catalog.Book
	// failUpdate makes Update return a storage error.
	failUpdate bool
	writes     int
}

func newMemBooks(books ...catalog.Book) *memBooks {
	return &memBooks{books: append([]catalog.Book{}, books...)}
}

func (m *memBooks) GetAll() ([]catalog.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Book{}, m.books...), nil
}

func (m *memBooks) Add(books ...catalog.Book) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(books) == 0 {
		return nil, storage.ErrInvalidInput
	}
	ids := make([]string, len(books))
	for i, b := range books {
		if err := catalog.Validate(b); err != nil {
			return nil, err
		}
		if b.ID == "" {
			b.ID = catalog.NewID()
		}
		ids[i] = b.ID
		m.books = append(m.books, b)
	}
	m.writes++
	return ids, nil
}

func (m *memBooks) FindByTitle(query string) ([]catalog.Book, error) {
	all, _ := m.GetAll()
	return catalog.Filter{Title: query}.Apply(all), nil
}

func (m *memBooks) Delete(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ok bool
	m.books, ok = catalog.Remove(m.books, id)
	if ok {
		m.writes++
	}
	return ok, nil
}

func (m *memBooks) Update(id string, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return false, fmt.Errorf("%w: disk full", storage.ErrUnavailable)
	}
	b := catalog.ByID(m.books, id)
	if b == nil {
		return false, nil
	}
	updated := *b
	if err := catalog.ApplyFields(&updated, fields); err != nil {
		return false, err
	}
	*b = updated
	m.writes++
	return true, nil
}

func (m *memBooks) book(id string) catalog.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *catalog.ByID(m.books, id)
}

var errHistoryDown = errors.New("history store down")

// memHistory is an in-memory history.Store. Setting fail makes every call
// return errHistoryDown.
type memHistory struct {
	mu      sync.Mutex
	records []history.Record
	fail    bool
}

func (m *memHistory) GetAll() ([]history.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errHistoryDown
	}
	return append([]history.Record{}, m.records...), nil
}

func (m *memHistory) Add(records ...history.Record) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errHistoryDown
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
		m.records = append(m.records, r)
	}
	return ids, nil
}

func (m *memHistory) FindByBookID(bookID string) ([]history.Record, error) {
	all, err := m.GetAll()
	if err != nil {
		return nil, err
	}
	return history.ForBook(all, bookID), nil
}

func (m *memHistory) FindByRecordID(id string) (history.Record, bool, error) {
	all, err := m.GetAll()
	if err != nil {
		return history.Record{}, false, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, true, nil
		}
	}
	return history.Record{}, false, nil
}

func (m *memHistory) Update(id string, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errHistoryDown
	}
	for i := range m.records {
		if m.records[i].ID != id {
			continue
		}
		if m.records[i].ReturnedAt != nil {
			return false, history.ErrAlreadyReturned
		}
		if at, ok := fields[history.FieldReturnedAt].(time.Time); ok {
			m.records[i].ReturnedAt = &at
		}
		return true, nil
	}
	return false, nil
}

func (m *memHistory) Delete(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memHistory) open(bookID string) []history.Record {
	all, _ := m.GetAll()
	return history.OpenOnly(history.ForBook(all, bookID))
}
