package circulation_test

import (
	"testing"

	"github.com/blackwell-systems/libcat/internal/circulation"
)

func TestBuildFromPairedInput(t *testing.T) {
	tests := []struct {
		name    string
		titles  string
		authors string
		want    [][2]string
	}{
		{"single", "Dune", "Frank Herbert", [][2]string{{"Dune", "Frank Herbert"}}},
		{"pairs", "Dune, Emma", "Herbert, Austen", [][2]string{{"Dune", "Herbert"}, {"Emma", "Austen"}}},
		{"pad authors", "A, B, C", "X", [][2]string{{"A", "X"}, {"B", "X"}, {"C", "X"}}},
		{"pad titles", "A", "X, Y", [][2]string{{"A", "X"}, {"A", "Y"}}},
		{"blank entries dropped", " A ,, B , ", "X,,Y", [][2]string{{"A", "X"}, {"B", "Y"}}},
		{"no authors", "A, B", "  ", [][2]string{{"A", ""}, {"B", ""}}},
		{"no titles", " , ", "X", nil},
		{"empty", "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := circulation.BuildFromPairedInput(tt.titles, tt.authors)
			if got == nil {
				t.Fatal("BuildFromPairedInput returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d books, want %d", len(got), len(tt.want))
			}
			seen := map[string]bool{}
			for i, b := range got {
				if b.Title != tt.want[i][0] || b.Author != tt.want[i][1] {
					t.Errorf("[%d] = (%q, %q), want (%q, %q)", i, b.Title, b.Author, tt.want[i][0], tt.want[i][1])
				}
				if !b.Available {
					t.Errorf("[%d] should be available", i)
				}
				if b.ID == "" || seen[b.ID] {
					t.Errorf("[%d] ID %q empty or duplicated", i, b.ID)
				}
				seen[b.ID] = true
			}
		})
	}
}
