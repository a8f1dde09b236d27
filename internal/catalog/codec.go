package catalog

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/libcat/internal/storage"
)

// Parse decodes a JSON array of books. Books without a book_id get one.
func Parse(data []byte) ([]Book, error) {
	books, err := storage.Parse[Book](data)
	if err != nil {
		return nil, fmt.Errorf("parsing books: %w", err)
	}
	FillIDs(books)
	return books, nil
}

// Marshal encodes a book list as an indented JSON array.
func Marshal(books []Book) ([]byte, error) {
	return storage.Marshal(books)
}

// MarshalYAML encodes a book list to YAML, for exports.
func MarshalYAML(books []Book) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if books == nil {
		books = []Book{}
	}
	if err := enc.Encode(books); err != nil {
		return nil, fmt.Errorf("encoding books: %w", err)
	}
	return buf.Bytes(), nil
}
