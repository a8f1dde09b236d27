package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

func newExportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as JSON or YAML",
		Example: `  libcat export > books.json
  libcat export --format yaml --output books.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := exportBooks(svc, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			newPrinter(cmd).ok("Exported to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format (json or yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func exportBooks(s *circulation.Service, format string) ([]byte, error) {
	books, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return catalog.Marshal(books)
	case "yaml", "yml":
		return catalog.MarshalYAML(books)
	}
	return nil, fmt.Errorf("%w: unknown format %q (want json or yaml)", circulation.ErrInvalidInput, format)
}
