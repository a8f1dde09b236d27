package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/libcat/internal/util"
)

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	if err := util.EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	fi, err := os.Stat(nested)
	if err != nil {
		t.Fatalf("Stat after EnsureDir: %v", err)
	}
	if !fi.IsDir() {
		t.Error("EnsureDir path is not a directory")
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	cases := []struct{ in, want string }{
		{"~/foo/bar", filepath.Join(home, "foo", "bar")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}
	for _, c := range cases {
		got := util.ExpandHome(c.in)
		if got != c.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	home, _ := os.UserHomeDir()
	cases := []struct{ base, name, want string }{
		{"/data", "books.json", filepath.Join("/data", "books.json")},
		{"/data", "/elsewhere/books.json", "/elsewhere/books.json"},
		{"~/lib", "books.json", filepath.Join(home, "lib", "books.json")},
		{"/data", "~/books.json", filepath.Join(home, "books.json")},
		{"/data", "", ""},
	}
	for _, c := range cases {
		if got := util.ResolvePath(c.base, c.name); got != c.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", c.base, c.name, got, c.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.json")
	if util.FileExists(path) {
		t.Error("FileExists true before file was created")
	}
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if !util.FileExists(path) {
		t.Error("FileExists false for existing file")
	}
	if util.FileExists(dir) {
		t.Error("FileExists true for a directory")
	}
}
