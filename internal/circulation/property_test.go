package circulation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/history"
)

// Random sequences of check-outs and check-ins over a few books must keep the
// book flag and the open history records in agreement.
func TestProperty_AvailabilityMatchesOpenRecords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("available iff no open checkout record", prop.ForAll(
		func(ops []int) bool {
			ids := []string{"b0", "b1", "b2"}
			books := newMemBooks()
			for _, id := range ids {
				books.books = append(books.books, book(id, true))
			}
			hist := &memHistory{}
			svc := newService(books, hist)

			for _, op := range ops {
				id := ids[op%len(ids)]
				before := books.book(id).Available
				var err error
				if op/len(ids)%2 == 0 {
					_, err = svc.CheckOut(id)
					if before != (err == nil) {
						t.Logf("FAIL: checkout %s available=%v err=%v", id, before, err)
						return false
					}
				} else {
					_, err = svc.CheckIn(id)
					if before == (err == nil) {
						t.Logf("FAIL: checkin %s available=%v err=%v", id, before, err)
						return false
					}
				}
				if err != nil && !errors.Is(err, circulation.ErrInvalidStateTransition) {
					t.Logf("FAIL: unexpected error %v", err)
					return false
				}
			}

			for _, id := range ids {
				open := hist.open(id)
				if books.book(id).Available != (len(open) == 0) || len(open) > 1 {
					t.Logf("FAIL: %s available=%v open=%d", id, books.book(id).Available, len(open))
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CheckOutThenCheckIn(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("check-out then check-in returns the book and closes its record", prop.ForAll(
		func(n int) bool {
			books := newMemBooks()
			for i := 0; i < n; i++ {
				books.books = append(books.books, book(fmt.Sprintf("b%d", i), true))
			}
			hist := &memHistory{}
			svc := newService(books, hist)

			for _, b := range books.books {
				co, err := svc.CheckOut(b.ID)
				if err != nil || !co.Consistent() {
					return false
				}
				ci, err := svc.CheckIn(b.ID)
				if err != nil || !ci.Consistent() || ci.RecordID != co.RecordID {
					return false
				}
				if !books.book(b.ID).Available {
					return false
				}
				r, ok, _ := hist.FindByRecordID(co.RecordID)
				if !ok || r.Open() || r.ReturnedAt.Before(r.CheckoutAt) {
					return false
				}
			}
			return len(history.OpenOnly(hist.records)) == 0
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_PairedInputNeverBlank(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("built books carry a non-blank title", prop.ForAll(
		func(titles, authors string) bool {
			for _, b := range circulation.BuildFromPairedInput(titles, authors) {
				if catalog.Validate(b) != nil {
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[a-z ,]{0,30}`),
		gen.RegexMatch(`[A-Z ,]{0,30}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
