package app

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

func newDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete [<id>]",
		Short: "Remove a book from the catalog",
		Long: `Remove a book from the catalog.

Checkout records for the book are kept in the history file. With no ID an
interactive picker is shown.`,
		Example: `  libcat delete
  libcat delete 3f2b6c1e-0d3a-4c51-9a53-0f4f7c2d1b9e --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			id, err := resolveBookID(svc, args, catalog.StatusAny, "Select book to delete")
			if err != nil {
				return err
			}

			b, err := svc.Get(id)
			if err != nil {
				return err
			}
			if !skipConfirm {
				in := bufio.NewReader(cmd.InOrStdin())
				if !confirm(in, p.out, fmt.Sprintf("Delete %q?", b.Title)) {
					p.println("Canceled.")
					return nil
				}
			}
			return deleteBook(p, svc, id)
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip confirmation prompt")
	return cmd
}

func deleteBook(p printer, s *circulation.Service, id string) error {
	b, err := s.Get(id)
	if err != nil {
		return err
	}
	if !b.Available {
		p.warn("%q is checked out; its open checkout record stays in the history", b.Title)
	}
	removed, err := s.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: book %s", circulation.ErrNotFound, id)
	}
	p.ok("Deleted %q", b.Title)
	return nil
}
