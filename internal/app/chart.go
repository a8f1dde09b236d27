package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/tui"
)

const defaultChartWidth = 40

func newChartCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:       fmt.Sprintf("chart <%s>", strings.Join(tui.ChartKinds(), "|")),
		Short:     "Draw a bar chart of the collection",
		Example:   "  libcat chart genres\n  libcat chart years --width 60",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tui.ChartKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showChart(newPrinter(cmd), svc, analyticsParams(), args[0], width)
		},
	}

	cmd.Flags().IntVar(&width, "width", defaultChartWidth, "Chart width in columns")
	return cmd
}

func showChart(p printer, s *circulation.Service, params analytics.Params, kind string, width int) error {
	summary, err := summarize(s, params)
	if err != nil {
		return err
	}
	title, bars, err := tui.ChartBars(kind, summary)
	if err != nil {
		return fmt.Errorf("%w: %v", circulation.ErrInvalidInput, err)
	}
	p.printf("%s", tui.RenderBarChart(title, bars, width))
	return nil
}
