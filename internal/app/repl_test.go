package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/libcat/internal/analytics"
	"github.com/blackwell-systems/libcat/internal/catalog"
	"github.com/blackwell-systems/libcat/internal/circulation"
	"github.com/blackwell-systems/libcat/internal/history"
)

func replService(t *testing.T, booksJSON string) (*circulation.Service, *catalog.FileStore, *history.FileStore) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "books.json")
	if err := os.WriteFile(path, []byte(booksJSON), 0644); err != nil {
		t.Fatal(err)
	}
	books := catalog.NewFileStore(path, nil)
	hist := history.NewFileStore(filepath.Join(dir, "checkout_history.json"), nil)
	return circulation.New(books, circulation.WithHistory(hist)), books, hist
}

func runScript(t *testing.T, s *circulation.Service, script string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(s, strings.NewReader(script), printer{out: &out, err: &out}, analytics.DefaultParams())
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestREPL_AddAndList(t *testing.T) {
	s, books, _ := replService(t, "[]")

	out := runScript(t, s, "help\nadd\nDune, Emma\nFrank Herbert\nlist\nbogus\nexit\nlist\n")

	for _, want := range []string{
		"checkout [id] [user]",
		`Added "Dune"`,
		`Added "Emma"`,
		"2 book(s)",
		`Unknown command "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "2 book(s)") != 1 {
		t.Errorf("commands after exit were run:\n%s", out)
	}

	all, err := books.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Author != "Frank Herbert" || all[1].Author != "Frank Herbert" {
		t.Errorf("books = %+v", all)
	}
}

func TestREPL_EmptyTitleAddsNothing(t *testing.T) {
	s, books, _ := replService(t, "[]")

	out := runScript(t, s, "add\n\n")
	if !strings.Contains(out, "No books added.") {
		t.Errorf("output = %q", out)
	}
	if all, _ := books.GetAll(); len(all) != 0 {
		t.Errorf("books = %+v", all)
	}
}

func TestREPL_CirculationAndErrorsContinue(t *testing.T) {
	s, books, hist := replService(t, `[{"book_id": "b1", "title": "Dune", "available": true}]`)

	script := strings.Join([]string{
		"checkout b1 sam",
		"checkout b1",
		"checkin b1",
		"history b1",
		"update b1",
		"genre",
		"sci-fi",
		"",
		"delete b1",
		"n",
		"info missing",
		"quit",
	}, "\n") + "\n"
	out := runScript(t, s, script)

	for _, want := range []string{
		`Checked out "Dune"`,
		"invalid state transition",
		`Checked in "Dune"`,
		"Updated b1",
		"Canceled.",
		"not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	all, err := books.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || !all[0].Available || all[0].Genre != "sci-fi" {
		t.Errorf("books = %+v", all)
	}
	records, err := hist.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Open() || records[0].UserID != "sam" {
		t.Errorf("records = %+v", records)
	}
}

func TestREPL_EOFEndsLoop(t *testing.T) {
	s, _, _ := replService(t, "[]")

	out := runScript(t, s, "list")
	if !strings.Contains(out, "No books found.") {
		t.Errorf("output = %q", out)
	}
}

func TestLookupREPLCommand_Aliases(t *testing.T) {
	for alias, want := range map[string]string{"quit": "exit", "q": "exit", "?": "help", "stats": "stats"} {
		c, ok := lookupREPLCommand(alias)
		if !ok || c.name != want {
			t.Errorf("lookupREPLCommand(%q) = %q, %v; want %q", alias, c.name, ok, want)
		}
	}
	if _, ok := lookupREPLCommand("getJoke"); ok {
		t.Error("unexpected command getJoke")
	}
}

func TestHubContext(t *testing.T) {
	s, _, _ := replService(t, `[
		{"book_id": "b1", "title": "Dune", "available": true},
		{"book_id": "b2", "title": "Emma", "available": false},
		{"book_id": "b3", "title": "Hyperion"}
	]`)

	ctx, err := hubContext(s)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.BookCount != 3 || ctx.CheckedOut != 1 || !ctx.HistoryEnabled {
		t.Errorf("hub context = %+v", ctx)
	}
}
