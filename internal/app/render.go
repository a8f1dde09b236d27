package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/history"
)

const timeLayout = "2006-01-02 15:04"

func statusText(b catalog.Book) string {
	if b.Available {
		return color.GreenString("available")
	}
	return color.YellowString("checked out")
}

func optFloat(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printBooks lists books one per line.
func printBooks(p printer, books []catalog.Book) {
	if len(books) == 0 {
		p.println("No books found.")
		return
	}
	for _, b := range books {
		p.printf("  %-36s  %-40s  %-24s  %s\n",
			color.WhiteString(b.ID),
			xansi.Truncate(b.Title, 40, "…"),
			xansi.Truncate(b.Author, 24, "…"),
			statusText(b),
		)
	}
	p.printf("\n%d book(s)\n", len(books))
}

// printBook shows every field of b, plus the open checkout record if any.
func printBook(p printer, b catalog.Book, open *history.Record) {
	p.header("Book: %s", b.ID)
	p.field(catalog.FieldTitle, b.Title)
	p.field(catalog.FieldAuthor, orDash(b.Author))
	p.field(catalog.FieldGenre, orDash(b.Genre))
	p.field(catalog.FieldPriceUSD, optFloat(b.PriceUSD, 2))
	p.field(catalog.FieldAverageRating, optFloat(b.AverageRating, 2))
	p.field(catalog.FieldRatingsCount, optInt(b.RatingsCount))
	p.field(catalog.FieldPublicationYear, optInt(b.PublicationYear))
	p.field("status", statusText(b))
	p.field(catalog.FieldLastCheckout, optTime(b.LastCheckout))
	if open != nil {
		who := orDash(open.UserID)
		p.field("borrowed by", fmt.Sprintf("%s since %s (record %s)", who, open.CheckoutAt.Local().Format(timeLayout), open.ID))
	}
}

// printRecords lists checkout records, most recent first.
func printRecords(p printer, records []history.Record) {
	if len(records) == 0 {
		p.println("No checkout records.")
		return
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		returned := color.YellowString("open")
		if r.ReturnedAt != nil {
			returned = r.ReturnedAt.Local().Format(timeLayout)
		}
		p.printf("  %-36s  book %-36s  out %s  back %s  %s\n",
			r.ID, r.BookID, r.CheckoutAt.Local().Format(timeLayout), returned, orDash(r.UserID))
		if r.Notes != "" {
			p.printf("      %s\n", color.HiBlackString(r.Notes))
		}
	}
}

// reportOutcome prints a committed transition and any history problem.
func reportOutcome(p printer, title string, out circulation.Outcome) {
	switch out.Action {
	case circulation.ActionCheckOut:
		p.ok("Checked out %q", title)
	case circulation.ActionCheckIn:
		p.ok("Checked in %q", title)
	}
	if out.HistoryErr != nil {
		p.warn("book updated, but checkout history was not: %v", out.HistoryErr)
	}
	if out.Warning != nil {
		p.warn("%v", out.Warning)
	}
}

// printSummary renders the stats report.
func printSummary(p printer, s analytics.Summary) {
	p.header("Collection")
	p.field("books", strconv.Itoa(s.Total))
	p.field(analytics.LabelAvailable, strconv.Itoa(s.Available))
	p.field(analytics.LabelCheckedOut, strconv.Itoa(s.CheckedOut))
	p.field("average price", optFloat(s.AveragePrice, 2))

	p.println()
	p.header("Top rated")
	if len(s.TopRated) == 0 {
		p.println("  (none with enough ratings)")
	}
	for i, b := range s.TopRated {
		p.printf("  %2d. %-40s %.2f\n", i+1, xansi.Truncate(b.Title, 40, "…"), b.Score)
	}

	p.println()
	p.header("Best value")
	if len(s.ValueScores) == 0 {
		p.println("  (no priced, rated books)")
	}
	for i, b := range s.ValueScores {
		p.printf("  %2d. %-40s %.3f\n", i+1, xansi.Truncate(b.Title, 40, "…"), b.Score)
	}

	p.println()
	p.header("Genres")
	for _, g := range s.Genres {
		p.printf("  %-24s %d\n", g.Genre, g.Count)
	}

	p.println()
	p.header("Median price by genre")
	for _, g := range s.MedianPrice {
		p.printf("  %-24s %.2f\n", g.Genre, g.Value)
	}

	p.println()
	p.header("Weighted rating by genre")
	for _, g := range s.WeightedRating {
		p.printf("  %-24s %.3f\n", g.Genre, g.Value)
	}

	p.println()
	p.header("Books by year")
	for _, y := range s.Years {
		p.printf("  %-24d %d\n", y.Year, y.Count)
	}
}
