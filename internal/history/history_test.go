package history_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/libcat/internal/history"
	"github.com/blackwell-systems/libcat/internal/storage"
)

var t0 = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *history.FileStore {
	t.Helper()
	return history.NewFileStore(filepath.Join(t.TempDir(), "checkout_history.json"), nil)
}

// --- Parse ---

func TestParse_ZonelessTimestamps(t *testing.T) {
	data := []byte(`[
  {"record_id": "r1", "book_id": "b1", "checkout_at": "2026-02-01T09:00:00.123456", "returned_at": null},
  {"book_id": "b2", "checkout_at": "2026-02-01T09:00:00Z", "returned_at": "2026-02-03T10:30:00"}
]`)
	records, err := history.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Open() {
		t.Error("records[0] should be open")
	}
	if records[0].CheckoutAt.Location() != time.UTC || records[0].CheckoutAt.Hour() != 9 {
		t.Errorf("records[0].CheckoutAt = %v", records[0].CheckoutAt)
	}
	if records[1].ID == "" {
		t.Error("missing record_id should be generated")
	}
	want := time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC)
	if records[1].ReturnedAt == nil || !records[1].ReturnedAt.Equal(want) {
		t.Errorf("records[1].ReturnedAt = %v, want %v", records[1].ReturnedAt, want)
	}
}

func TestParse_BadTimestamp(t *testing.T) {
	if _, err := history.Parse([]byte(`[{"book_id": "b1", "checkout_at": "soon"}]`)); err == nil {
		t.Error("expected error for unparseable checkout_at")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	r := history.NewRecord("b1", t0)
	r.UserID = "alice"
	ret := t0.Add(time.Hour)
	r.ReturnedAt = &ret

	data, err := history.Marshal([]history.Record{r})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := history.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got[0].ID != r.ID || got[0].UserID != "alice" || !got[0].CheckoutAt.Equal(t0) || !got[0].ReturnedAt.Equal(ret) {
		t.Errorf("round trip: got %+v, want %+v", got[0], r)
	}
}

// --- helpers ---

func TestLatestOpen(t *testing.T) {
	a := history.NewRecord("b1", t0)
	b := history.NewRecord("b1", t0.Add(time.Hour))
	c := history.NewRecord("b1", t0.Add(time.Hour))
	closed := history.NewRecord("b1", t0.Add(2*time.Hour))
	ret := t0.Add(3 * time.Hour)
	closed.ReturnedAt = &ret

	got, ok := history.LatestOpen([]history.Record{a, b, closed, c})
	if !ok {
		t.Fatal("LatestOpen found nothing")
	}
	if got.ID != b.ID {
		t.Errorf("LatestOpen = %s, want first of the latest (%s)", got.ID, b.ID)
	}

	if _, ok := history.LatestOpen([]history.Record{closed}); ok {
		t.Error("LatestOpen should ignore closed records")
	}
}

func TestForBookAndOpenOnly(t *testing.T) {
	a := history.NewRecord("b1", t0)
	b := history.NewRecord("b2", t0)
	c := history.NewRecord("b1", t0.Add(time.Minute))
	ret := t0.Add(time.Hour)
	c.ReturnedAt = &ret

	all := []history.Record{a, b, c}
	if got := history.ForBook(all, "b1"); len(got) != 2 || got[0].ID != a.ID || got[1].ID != c.ID {
		t.Errorf("ForBook(b1) = %v", got)
	}
	if got := history.ForBook(all, "zz"); got == nil || len(got) != 0 {
		t.Errorf("ForBook(zz) = %#v, want empty", got)
	}
	if got := history.OpenOnly(all); len(got) != 2 {
		t.Errorf("OpenOnly = %d records, want 2", len(got))
	}
}

// --- FileStore ---

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := newStore(t)
	records, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty history, got %#v", records)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("GetAll should not create the file")
	}
}

func TestFileStore_GeneratedRecordIDIsStable(t *testing.T) {
	s := newStore(t)
	data := `[{"book_id": "b1", "checkout_at": "2026-02-01T09:00:00"}]`
	if err := os.WriteFile(s.Path(), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	records, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	id := records[0].ID
	if id == "" {
		t.Fatal("record_id should be generated")
	}

	got, found, err := s.FindByRecordID(id)
	if err != nil || !found || got.BookID != "b1" {
		t.Fatalf("FindByRecordID(%q) = %+v, %v, %v", id, got, found, err)
	}
	ok, err := s.Update(id, map[string]any{history.FieldReturnedAt: t0.Add(time.Hour)})
	if err != nil || !ok {
		t.Fatalf("Update by generated id = %v, %v", ok, err)
	}
	records, _ = s.GetAll()
	if records[0].ID != id || records[0].Open() {
		t.Errorf("after close: %+v", records[0])
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAll(); !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("GetAll on corrupt file = %v, want ErrUnavailable", err)
	}
}

func TestFileStore_AddAndFind(t *testing.T) {
	s := newStore(t)
	ids, err := s.Add(history.NewRecord("b1", t0), history.NewRecord("b2", t0), history.Record{BookID: "b1", CheckoutAt: t0.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(ids) != 3 || ids[2] == "" {
		t.Fatalf("ids = %v", ids)
	}

	forB1, err := s.FindByBookID("b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(forB1) != 2 || forB1[0].ID != ids[0] || forB1[1].ID != ids[2] {
		t.Errorf("FindByBookID(b1) = %v", forB1)
	}

	r, ok, err := s.FindByRecordID(ids[1])
	if err != nil || !ok || r.BookID != "b2" {
		t.Errorf("FindByRecordID = %+v, %v, %v", r, ok, err)
	}
	if _, ok, _ := s.FindByRecordID("nope"); ok {
		t.Error("FindByRecordID found a missing record")
	}
}

func TestFileStore_AddRejectsInvalid(t *testing.T) {
	s := newStore(t)
	early := t0.Add(-time.Hour)
	dup := history.NewRecord("b1", t0)

	cases := [][]history.Record{
		nil,
		{{CheckoutAt: t0}},
		{{BookID: "b1"}},
		{{BookID: "b1", CheckoutAt: t0, ReturnedAt: &early}},
		{dup, dup},
	}
	for _, in := range cases {
		if _, err := s.Add(in...); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Add(%v) = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestFileStore_UpdateReturnedAtOnce(t *testing.T) {
	s := newStore(t)
	ids, _ := s.Add(history.NewRecord("b1", t0))
	ret := t0.Add(2 * time.Hour)

	ok, err := s.Update(ids[0], map[string]any{history.FieldReturnedAt: ret, "book_id": "other"})
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	r, _, _ := s.FindByRecordID(ids[0])
	if r.ReturnedAt == nil || !r.ReturnedAt.Equal(ret) || r.BookID != "b1" {
		t.Errorf("after update: %+v", r)
	}

	_, err = s.Update(ids[0], map[string]any{history.FieldReturnedAt: ret.Add(time.Hour)})
	if !errors.Is(err, history.ErrAlreadyReturned) {
		t.Errorf("second returned_at = %v, want ErrAlreadyReturned", err)
	}
	r, _, _ = s.FindByRecordID(ids[0])
	if !r.ReturnedAt.Equal(ret) {
		t.Error("returned_at was overwritten")
	}
}

func TestFileStore_UpdateValidation(t *testing.T) {
	s := newStore(t)
	ids, _ := s.Add(history.NewRecord("b1", t0))

	cases := []map[string]any{
		nil,
		{history.FieldReturnedAt: t0.Add(-time.Minute)},
		{history.FieldReturnedAt: "not a time"},
		{history.FieldReturnedAt: nil},
	}
	for _, fields := range cases {
		if _, err := s.Update(ids[0], fields); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Update(%v) = %v, want ErrInvalidInput", fields, err)
		}
	}

	ok, err := s.Update("missing", map[string]any{history.FieldNotes: "x"})
	if err != nil || ok {
		t.Errorf("Update missing = %v, %v; want false, nil", ok, err)
	}
}

func TestFileStore_UpdateNotes(t *testing.T) {
	s := newStore(t)
	ids, _ := s.Add(history.NewRecord("b1", t0))
	if _, err := s.Update(ids[0], map[string]any{history.FieldNotes: "dog-eared", history.FieldUserID: "bob"}); err != nil {
		t.Fatal(err)
	}
	r, _, _ := s.FindByRecordID(ids[0])
	if r.Notes != "dog-eared" || r.UserID != "bob" || !r.Open() {
		t.Errorf("after update: %+v", r)
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := newStore(t)
	ids, _ := s.Add(history.NewRecord("b1", t0), history.NewRecord("b1", t0))

	ok, err := s.Delete(ids[0])
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	all, _ := s.GetAll()
	if len(all) != 1 || all[0].ID != ids[1] {
		t.Errorf("after delete: %v", all)
	}
	ok, err = s.Delete(ids[0])
	if err != nil || ok {
		t.Errorf("Delete missing = %v, %v; want false, nil", ok, err)
	}
}
