package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/libcat/internal/util"
)

// EnvPrefix prefixes every environment override, e.g. LIBCAT_STORAGE_DATA_DIR.
const EnvPrefix = "LIBCAT"

// DefaultPath returns the config file path: $LIBCAT_CONFIG if set, else
// ~/.config/libcat/config.yml.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return util.ExpandHome(p)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "libcat", "config.yml")
}

// DefaultDataDir is where the data files live unless configured otherwise.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "libcat")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.data_dir", DefaultDataDir())
	v.SetDefault("storage.books_file", "books.json")
	v.SetDefault("storage.history_file", "checkout_history.json")
	v.SetDefault("storage.history_enabled", true)
	v.SetDefault("storage.atomic_writes", true)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.format", "console")
	v.SetDefault("analytics.min_ratings", 1000)
	v.SetDefault("analytics.top_limit", 10)
	v.SetDefault("analytics.bayes_m", 50)
	v.SetDefault("analytics.min_books_per_genre", 1)
}

// Default returns the configuration used when no file or env override exists.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads the config from .env, the environment, and the config file.
// A missing file is not an error; init writes one.
func Load() (*Config, error) {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(DefaultPath())
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Storage.DataDir = util.ExpandHome(cfg.Storage.DataDir)

	return &cfg, nil
}

// Save writes the config to DefaultPath.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the config as YAML to path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
