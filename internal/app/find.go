package app

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/circulation"
)

func newFindCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find books whose title contains the query",
		Long: `Find books whose title contains the query, ignoring case.

Matches are listed in catalog order.`,
		Example: `  libcat find dune
  libcat find "the left hand" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return findBooks(newPrinter(cmd), svc, strings.Join(args, " "), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func findBooks(p printer, s *circulation.Service, query string, asJSON bool) error {
	books, err := s.FindByTitle(query)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(p, books)
	}
	printBooks(p, books)
	return nil
}
