package app

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/tui"
	"github.com/blackwell-systems/libcat/internal/util"
)

// errNeedID is returned when a command needs a book ID and cannot prompt.
var errNeedID = errors.New("book ID required in non-interactive mode")

// resolveBookID returns args[0], or lets the user pick from the books that
// match status when no ID was given and the terminal is interactive.
func resolveBookID(s *circulation.Service, args []string, status catalog.Status, title string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if flagNoInteractive || !util.IsInteractive() {
		return "", errNeedID
	}

	books, err := s.GetAll()
	if err != nil {
		return "", err
	}
	books = catalog.Filter{Status: status}.Apply(books)
	if len(books) == 0 {
		return "", fmt.Errorf("%w: no matching books", circulation.ErrNotFound)
	}

	selected, err := tui.RunBookPicker(tui.BookItems(books), title)
	if err != nil {
		return "", err
	}
	return selected.Book.ID, nil
}
