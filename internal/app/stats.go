package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics about the collection",
		Long: `Show prices, ratings, and genre breakdowns for the whole catalog.

Thresholds come from the analytics section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStats(newPrinter(cmd), svc, analyticsParams(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func summarize(s *circulation.Service, params analytics.Params) (analytics.Summary, error) {
	books, err := s.GetAll()
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(books, params), nil
}

func showStats(p printer, s *circulation.Service, params analytics.Params, asJSON bool) error {
	summary, err := summarize(s, params)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(p, summary)
	}
	printSummary(p, summary)
	return nil
}
