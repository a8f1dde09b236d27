package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/history"
)

func newCheckoutCmd() *cobra.Command {
	var user, notes string

	cmd := &cobra.Command{
		Use:     "checkout [<id>]",
		Aliases: []string{"out"},
		Short:   "Check out an available book",
		Long: `Mark an available book as checked out and open a checkout record.

With no ID an interactive picker of available books is shown.`,
		Example: `  libcat checkout
  libcat checkout 3f2b6c1e-0d3a-4c51-9a53-0f4f7c2d1b9e --user sam --notes "back by Friday"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBookID(svc, args, catalog.StatusAvailable, "Select book to check out")
			if err != nil {
				return err
			}
			var opts []circulation.CheckoutOption
			if user != "" {
				opts = append(opts, circulation.WithUser(user))
			}
			if notes != "" {
				opts = append(opts, circulation.WithNotes(notes))
			}
			return checkOut(newPrinter(cmd), svc, id, opts...)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Who is borrowing the book")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text note stored on the checkout record")
	return cmd
}

func newCheckinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkin [<id>]",
		Aliases: []string{"in", "return"},
		Short:   "Check in a checked-out book",
		Long: `Mark a checked-out book as available and close its open checkout record.

With no ID an interactive picker of checked-out books is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveBookID(svc, args, catalog.StatusCheckedOut, "Select book to check in")
			if err != nil {
				return err
			}
			return checkIn(newPrinter(cmd), svc, id)
		},
	}
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		openOnly bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "history [<id>]",
		Short: "Show checkout records",
		Long: `Show checkout records for one book, or for every book when no ID is
given. Records are listed most recent first.`,
		Example: `  libcat history
  libcat history --open
  libcat history 3f2b6c1e-0d3a-4c51-9a53-0f4f7c2d1b9e --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) > 0 {
				id = args[0]
			}
			return showHistory(newPrinter(cmd), svc, id, openOnly, asJSON)
		},
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "Only records that have not been returned")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func checkOut(p printer, s *circulation.Service, id string, opts ...circulation.CheckoutOption) error {
	b, err := s.Get(id)
	if err != nil {
		return err
	}
	out, err := s.CheckOut(id, opts...)
	if err != nil {
		return err
	}
	reportOutcome(p, b.Title, out)
	return nil
}

func checkIn(p printer, s *circulation.Service, id string) error {
	b, err := s.Get(id)
	if err != nil {
		return err
	}
	out, err := s.CheckIn(id)
	if err != nil {
		return err
	}
	reportOutcome(p, b.Title, out)
	return nil
}

func showHistory(p printer, s *circulation.Service, id string, openOnly, asJSON bool) error {
	if !s.HistoryEnabled() {
		p.warn("Checkout history is disabled (storage.history_enabled: false)")
	}
	records, err := s.History(id)
	if err != nil {
		return err
	}
	if openOnly {
		records = history.OpenOnly(records)
	}
	if asJSON {
		return writeJSON(p, records)
	}
	printRecords(p, records)
	return nil
}
