package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Book is one entry in the books file.
type Book struct {
	ID              string     `json:"book_id" yaml:"book_id"`
	Title           string     `json:"title" yaml:"title"`
	Author          string     `json:"author" yaml:"author"`
	Genre           string     `json:"genre" yaml:"genre,omitempty"`
	PriceUSD        *float64   `json:"price_usd" yaml:"price_usd,omitempty"`
	AverageRating   *float64   `json:"average_rating" yaml:"average_rating,omitempty"`
	RatingsCount    *int       `json:"ratings_count" yaml:"ratings_count,omitempty"`
	PublicationYear *int       `json:"publication_year" yaml:"publication_year,omitempty"`
	Available       bool       `json:"available" yaml:"available"`
	LastCheckout    *time.Time `json:"last_checkout" yaml:"last_checkout,omitempty"`
}

// NewID returns a fresh book identifier.
func NewID() string {
	return uuid.NewString()
}

// NewBook returns an available book with a generated ID.
func NewBook(title, author string) Book {
	return Book{
		ID:        NewID(),
		Title:     title,
		Author:    author,
		Available: true,
	}
}

// UnmarshalJSON applies the construction defaults to records read from disk:
// a missing "available" key means available. last_checkout may be RFC 3339
// or a zoneless ISO 8601 string. Missing IDs are filled by FillIDs.
func (b *Book) UnmarshalJSON(data []byte) error {
	type plain Book
	var aux struct {
		plain
		Available    *bool   `json:"available"`
		LastCheckout *string `json:"last_checkout"`
	}
	if err := storage.JSON.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = Book(aux.plain)
	last, err := storage.ParseOptionalTime(aux.LastCheckout)
	if err != nil {
		return fmt.Errorf("last_checkout: %w", err)
	}
	b.LastCheckout = last
	b.Available = aux.Available == nil || *aux.Available
	return nil
}

// FillIDs gives every book without a book_id a new one and reports whether
// any was assigned.
func FillIDs(books []Book) bool {
	changed := false
	for i := range books {
		if books[i].ID == "" {
			books[i].ID = NewID()
			changed = true
		}
	}
	return changed
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional numeric fields.
func Int(v int) *int { return &v }
