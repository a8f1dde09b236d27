package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/blackwell-systems/libcat/internal/catalog"
)

// BookItem wraps a book for list display.
type BookItem struct {
	Book catalog.Book
}

var _ list.Item = BookItem{}

// FilterValue returns a string used for filtering in the list
func (b BookItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", b.Book.ID, b.Book.Title, b.Book.Author, b.Book.Genre)
}

// BookItems wraps books for the picker.
func BookItems(books []catalog.Book) []BookItem {
	items := make([]BookItem, len(books))
	for i, b := range books {
		items[i] = BookItem{Book: b}
	}
	return items
}

// StatusLabel renders the availability of b.
func StatusLabel(b catalog.Book) string {
	if b.Available {
		return StyleAvailable.Render("available")
	}
	return StyleCheckedOut.Render("checked out")
}
