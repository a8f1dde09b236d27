package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id> <field=value>...",
		Short: "Change fields of a book",
		Long: fmt.Sprintf(`Change fields of a book.

Updatable fields: %s.
Use field=null to clear an optional field. Values are converted to the
field's type; a value that cannot be converted leaves the book unchanged.
Availability changes only through checkout and checkin.`,
			strings.Join(circulation.EditableFields(), ", ")),
		Example: `  libcat update 3f2b6c1e-0d3a-4c51-9a53-0f4f7c2d1b9e price_usd=12.50 genre=sci-fi
  libcat update 3f2b6c1e-0d3a-4c51-9a53-0f4f7c2d1b9e average_rating=null`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateBook(newPrinter(cmd), svc, args[0], args[1:])
		},
	}
	return cmd
}

func updateBook(p printer, s *circulation.Service, id string, assignments []string) error {
	fields, unknown, err := parseAssignments(assignments)
	if err != nil {
		return err
	}
	for _, k := range unknown {
		p.warn("ignoring unknown field %q", k)
	}
	if _, ok := fields[catalog.FieldID]; ok {
		p.warn("%s cannot be changed; ignoring", catalog.FieldID)
	}
	return applyUpdate(p, s, id, fields)
}

func applyUpdate(p printer, s *circulation.Service, id string, fields map[string]any) error {
	updated, err := s.Update(id, fields)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: book %s", circulation.ErrNotFound, id)
	}
	p.ok("Updated %s", id)
	return nil
}
