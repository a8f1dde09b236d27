package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/storage"
)

func newListCmd() *cobra.Command {
	var (
		f      catalog.Filter
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the catalog",
		Example: `  libcat list
  libcat list --genre fiction --status available
  libcat list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStatus(status)
			if err != nil {
				return err
			}
			f.Status = st
			return listBooks(newPrinter(cmd), svc, f, asJSON)
		},
	}

	cmd.Flags().StringVar(&f.Genre, "genre", "", "Only books in this genre")
	cmd.Flags().StringVar(&f.Author, "author", "", "Only books whose author contains this text")
	cmd.Flags().StringVar(&status, "status", "", "Only books with this status (available, checked-out)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func parseStatus(s string) (catalog.Status, error) {
	switch catalog.Status(s) {
	case catalog.StatusAny, catalog.StatusAvailable, catalog.StatusCheckedOut:
		return catalog.Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q (want %s or %s)",
		circulation.ErrInvalidInput, s, catalog.StatusAvailable, catalog.StatusCheckedOut)
}

func listBooks(p printer, s *circulation.Service, f catalog.Filter, asJSON bool) error {
	books, err := s.GetAll()
	if err != nil {
		return err
	}
	books = f.Apply(books)
	if asJSON {
		return writeJSON(p, books)
	}
	printBooks(p, books)
	return nil
}

// writeJSON prints v as indented JSON.
func writeJSON(p printer, v any) error {
	data, err := storage.JSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	p.println(string(data))
	return nil
}
