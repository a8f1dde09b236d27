package circulation

import (
	"strings"

	"github.com/blackwell-systems/libcat/internal/catalog"
)

// Separator splits multi-value title and author input.
const Separator = ","

// BuildFromPairedInput turns comma-separated titles and authors into books.
// Blank entries are dropped, and the shorter list is padded by repeating its
// last element. No titles means no books; no authors means an empty author.
func BuildFromPairedInput(titles, authors string) []catalog.Book {
	ts := splitList(titles)
	if len(ts) == 0 {
		return []catalog.Book{}
	}
	as := splitList(authors)
	if len(as) == 0 {
		as = []string{""}
	}
	for len(as) < len(ts) {
		as = append(as, as[len(as)-1])
	}
	for len(ts) < len(as) {
		ts = append(ts, ts[len(ts)-1])
	}

	books := make([]catalog.Book, len(ts))
	for i := range ts {
		books[i] = catalog.NewBook(ts[i], as[i])
	}
	return books
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, Separator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
