package catalog

import "strings"

// Status selects books by availability.
type Status string

const (
	StatusAny        Status = ""
	StatusAvailable  Status = "available"
	StatusCheckedOut Status = "checked-out"
)

// Filter applies all non-empty criteria and returns matching books.
type Filter struct {
	Title  string // case-insensitive substring of the title
	Author string // case-insensitive substring of the author
	Genre  string // exact genre, case-insensitive
	Status Status
}

// Apply returns the subset of books matching all non-empty filter fields.
// The result is never nil.
func (f Filter) Apply(books []Book) []Book {
	out := []Book{}
	title := strings.ToLower(strings.TrimSpace(f.Title))
	author := strings.ToLower(strings.TrimSpace(f.Author))
	for _, b := range books {
		if title != "" && !strings.Contains(strings.ToLower(b.Title), title) {
			continue
		}
		if author != "" && !strings.Contains(strings.ToLower(b.Author), author) {
			continue
		}
		if f.Genre != "" && !strings.EqualFold(b.Genre, f.Genre) {
			continue
		}
		if !f.Status.matches(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s Status) matches(b Book) bool {
	switch s {
	case StatusAvailable:
		return b.Available
	case StatusCheckedOut:
		return !b.Available
	default:
		return true
	}
}

// ByID returns the first book with the given ID, or nil.
func ByID(books []Book, id string) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}

// Remove removes a book by ID. Returns the updated slice and whether a book
// was actually removed.
func Remove(books []Book, id string) ([]Book, bool) {
	for i, b := range books {
		if b.ID == id {
			return append(books[:i], books[i+1:]...), true
		}
	}
	return books, false
}
