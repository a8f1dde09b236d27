package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/history"
)

func newInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info [<id>]",
		Short: "Show every field of a book",
		Long: `Show every field of a book. For a checked-out book the open checkout
record is shown as well.

With no ID an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBookID(svc, args, catalog.StatusAny, "Select book")
			if err != nil {
				return err
			}
			return showBook(newPrinter(cmd), svc, id, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func showBook(p printer, s *circulation.Service, id string, asJSON bool) error {
	b, err := s.Get(id)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(p, b)
	}

	var open *history.Record
	if !b.Available {
		r, ok, err := s.OpenRecord(id)
		if err != nil {
			p.warn("could not read checkout history: %v", err)
		} else if ok {
			open = &r
		}
	}
	printBook(p, b, open)
	return nil
}
