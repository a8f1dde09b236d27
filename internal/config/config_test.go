package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/libcat/internal/config"
)

// isolate points the config path and working directory at a temp dir so
// the user's real config and .env are never read.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LIBCAT_CONFIG", filepath.Join(dir, "config.yml"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if cfg.Storage.BooksFile != "books.json" {
		t.Errorf("BooksFile = %q", cfg.Storage.BooksFile)
	}
	if cfg.Storage.HistoryFile != "checkout_history.json" {
		t.Errorf("HistoryFile = %q", cfg.Storage.HistoryFile)
	}
	if !cfg.Storage.HistoryEnabled || !cfg.Storage.AtomicWrites {
		t.Errorf("storage flags = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Analytics.MinRatings != 1000 || cfg.Analytics.TopLimit != 10 || cfg.Analytics.BayesM != 50 {
		t.Errorf("analytics = %+v", cfg.Analytics)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != config.DefaultDataDir() {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, config.DefaultDataDir())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("LIBCAT_STORAGE_DATA_DIR", dir)
	t.Setenv("LIBCAT_STORAGE_HISTORY_ENABLED", "false")
	t.Setenv("LIBCAT_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, dir)
	}
	if cfg.Storage.HistoryEnabled {
		t.Error("HistoryEnabled should be false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if want := filepath.Join(dir, "books.json"); cfg.BooksPath() != want {
		t.Errorf("BooksPath = %q, want %q", cfg.BooksPath(), want)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(func() { os.Unsetenv("LIBCAT_ANALYTICS_TOP_LIMIT") })
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LIBCAT_ANALYTICS_TOP_LIMIT=3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analytics.TopLimit != 3 {
		t.Errorf("TopLimit = %d, want 3", cfg.Analytics.TopLimit)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)
	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Storage.BooksFile = "mine.json"
	cfg.Log.Format = "json"

	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BooksPath() != filepath.Join(dir, "data", "mine.json") {
		t.Errorf("BooksPath = %q", loaded.BooksPath())
	}
	if loaded.Log.Format != "json" {
		t.Errorf("Log.Format = %q", loaded.Log.Format)
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("storage: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestPaths(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		DataDir:     "/data",
		BooksFile:   "books.json",
		HistoryFile: "/elsewhere/history.json",
	}}
	if got := cfg.BooksPath(); got != filepath.Join("/data", "books.json") {
		t.Errorf("BooksPath = %q", got)
	}
	if got := cfg.HistoryPath(); got != "/elsewhere/history.json" {
		t.Errorf("HistoryPath = %q", got)
	}
	if got := cfg.LogPath(); got != "" {
		t.Errorf("LogPath = %q, want empty", got)
	}
	cfg.Log.File = "libcat.log"
	if got := cfg.LogPath(); got != filepath.Join("/data", "libcat.log") {
		t.Errorf("LogPath = %q", got)
	}
}
