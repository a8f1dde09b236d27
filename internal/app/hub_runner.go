package app

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/tui"
)

// pickerStatus is the book subset offered for actions that need an ID.
var pickerStatus = map[string]catalog.Status{
	tui.ActionUpdate:   catalog.StatusAny,
	tui.ActionDelete:   catalog.StatusAny,
	tui.ActionCheckout: catalog.StatusAvailable,
	tui.ActionCheckin:  catalog.StatusCheckedOut,
}

var pickerTitles = map[string]string{
	tui.ActionUpdate:   "Select book to update",
	tui.ActionDelete:   "Select book to delete",
	tui.ActionCheckout: "Select book to check out",
	tui.ActionCheckin:  "Select book to check in",
}

// hubContext counts the catalog for the hub header and menu filtering.
func hubContext(s *circulation.Service) (tui.HubContext, error) {
	books, err := s.GetAll()
	if err != nil {
		return tui.HubContext{}, err
	}
	_, out := analytics.AvailabilityCounts(books)
	return tui.HubContext{
		BookCount:      len(books),
		CheckedOut:     out,
		HistoryEnabled: s.HistoryEnabled(),
	}, nil
}

// runHub shows the hub menu, runs the chosen action, and returns to the
// menu until the user quits. Actions that need a book open the picker;
// add and update use the book form; the rest run through the REPL handlers.
func runHub(cmd *cobra.Command) error {
	r := newREPL(svc, cmd.InOrStdin(), newPrinter(cmd), analyticsParams())
	for {
		ctx, err := hubContext(svc)
		if err != nil {
			return err
		}
		action, err := tui.RunHub(ctx)
		if err != nil {
			return err
		}
		if action == tui.ActionQuit {
			return nil
		}
		logger.Debug("hub action", zap.String("action", action))

		var id string
		if status, ok := pickerStatus[action]; ok {
			id, err = resolveBookID(svc, nil, status, pickerTitles[action])
			if errors.Is(err, tui.ErrCanceled) {
				continue
			}
			if err != nil {
				r.p.fail("%v", err)
				waitForEnter(r)
				continue
			}
		}

		switch action {
		case tui.ActionAdd:
			err = hubAdd(r.p, svc)
		case tui.ActionUpdate:
			err = hubUpdate(r.p, svc, id)
		default:
			line := action
			if id != "" {
				line += " " + id
			}
			r.exec(line)
		}
		if errors.Is(err, tui.ErrCanceled) {
			continue
		}
		if err != nil {
			r.p.fail("%v", err)
		}
		waitForEnter(r)
	}
}

func hubAdd(p printer, s *circulation.Service) error {
	vals, err := tui.RunBookForm(tui.BookFormDefaults{Heading: "Add Books"})
	if err != nil {
		return err
	}
	return addBooks(p, s, vals[catalog.FieldTitle], vals[catalog.FieldAuthor], tui.BookFormExtras(vals))
}

func hubUpdate(p printer, s *circulation.Service, id string) error {
	b, err := s.Get(id)
	if err != nil {
		return err
	}
	vals, err := tui.RunBookForm(tui.BookFormDefaults{Heading: "Edit Book", Book: b})
	if err != nil {
		return err
	}
	changes := tui.BookFormChanges(b, vals)
	if len(changes) == 0 {
		p.println("No changes.")
		return nil
	}
	return applyUpdate(p, s, id, changes)
}

func waitForEnter(r *repl) {
	r.p.println()
	_ = r.ask("Press Enter to return to the menu")
}
