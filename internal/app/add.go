package app

import (
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
)

// addFlagFields maps add flags to the book fields they set.
var addFlagFields = map[string]string{
	"genre":         catalog.FieldGenre,
	"price":         catalog.FieldPriceUSD,
	"rating":        catalog.FieldAverageRating,
	"ratings-count": catalog.FieldRatingsCount,
	"year":          catalog.FieldPublicationYear,
}

func newAddCmd() *cobra.Command {
	var titles, authors string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one or more books",
		Long: `Add books from comma-separated titles and authors.

Titles and authors are paired by position. When one list is shorter its
last entry is repeated, so one author can be given for several titles.
Blank entries are skipped. Any other flag given applies to every added book.`,
		Example: `  libcat add --title "Dune" --author "Frank Herbert"
  libcat add --title "Emma, Persuasion" --author "Jane Austen, Jane Austen" --genre classics
  libcat add --title "Hyperion" --price 9.99 --year 1989`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := map[string]any{}
			for flag, field := range addFlagFields {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					extra[field] = v
				}
			}
			return addBooks(newPrinter(cmd), svc, titles, authors, extra)
		},
	}

	cmd.Flags().StringVar(&titles, "title", "", "Comma-separated titles (required)")
	cmd.Flags().StringVar(&authors, "author", "", "Comma-separated authors, paired with titles by position")
	cmd.Flags().String("genre", "", "Genre for every added book")
	cmd.Flags().String("price", "", "Price in USD")
	cmd.Flags().String("rating", "", "Average rating")
	cmd.Flags().String("ratings-count", "", "Number of ratings")
	cmd.Flags().String("year", "", "Publication year")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func addBooks(p printer, s *circulation.Service, titles, authors string, extra map[string]any) error {
	added, err := s.AddFromInput(titles, authors, extra)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		p.warn("No titles given; nothing added")
		return nil
	}
	for _, b := range added {
		p.ok("Added %q (%s)", b.Title, b.ID)
	}
	return nil
}
