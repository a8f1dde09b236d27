package config

import "github.com/blackwell-systems/libcat/internal/util"

// Config is the top-level libcat configuration.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics" yaml:"analytics"`
}

// StorageConfig locates the data files.
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	BooksFile      string `mapstructure:"books_file" yaml:"books_file"`
	HistoryFile    string `mapstructure:"history_file" yaml:"history_file"`
	HistoryEnabled bool   `mapstructure:"history_enabled" yaml:"history_enabled"`
	AtomicWrites   bool   `mapstructure:"atomic_writes" yaml:"atomic_writes"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	File   string `mapstructure:"file" yaml:"file,omitempty"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// AnalyticsConfig tunes the stats command.
type AnalyticsConfig struct {
	MinRatings       int     `mapstructure:"min_ratings" yaml:"min_ratings"`
	TopLimit         int     `mapstructure:"top_limit" yaml:"top_limit"`
	BayesM           float64 `mapstructure:"bayes_m" yaml:"bayes_m"`
	MinBooksPerGenre int     `mapstructure:"min_books_per_genre" yaml:"min_books_per_genre"`
}

// BooksPath returns the resolved books file path.
func (c *Config) BooksPath() string {
	return util.ResolvePath(c.Storage.DataDir, c.Storage.BooksFile)
}

// HistoryPath returns the resolved checkout history file path.
func (c *Config) HistoryPath() string {
	return util.ResolvePath(c.Storage.DataDir, c.Storage.HistoryFile)
}

// LogPath returns the resolved log file path, or "" for stderr.
func (c *Config) LogPath() string {
	if c.Log.File == "" {
		return ""
	}
	return util.ResolvePath(c.Storage.DataDir, c.Log.File)
}
