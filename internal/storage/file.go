package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Option configures a File.
type Option func(*settings)

type settings struct {
	atomic    bool
	missingOK bool
	log       *zap.Logger
}

// WithAtomicWrites writes to <path>.tmp and renames over the target so an
// interrupted write never leaves a truncated file behind.
func WithAtomicWrites(on bool) Option {
	return func(s *settings) { s.atomic = on }
}

// WithMissingOK makes Load return an empty slice when the file does not exist.
func WithMissingOK() Option {
	return func(s *settings) { s.missingOK = true }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// File is a JSON array of T persisted as a single file. Every mutation is a
// full read, an in-memory change, and a full rewrite. No lock is held across
// the span; one process per file is assumed.
type File[T any] struct {
	path   string
	repair func([]T) bool
	settings
}

// NewFile creates a File bound to path.
func NewFile[T any](path string, opts ...Option) *File[T] {
	f := &File[T]{
		path:     path,
		settings: settings{atomic: true, log: zap.NewNop()},
	}
	for _, opt := range opts {
		opt(&f.settings)
	}
	return f
}

// Repair registers fn to run on every Load. When fn reports that it changed
// the items, the repaired items are written back before Load returns, so
// values it fills in (such as generated IDs) stay stable across reads.
func (f *File[T]) Repair(fn func([]T) bool) *File[T] {
	f.repair = fn
	return f
}

// Path returns the backing file path.
func (f *File[T]) Path() string {
	return f.path
}

// Ensure creates the parent directory and an empty [] file if the file does
// not exist yet. Existing files are left untouched.
func (f *File[T]) Ensure() error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return f.Save(nil)
}

// Load reads and decodes every item.
func (f *File[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && f.missingOK {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrUnavailable, f.path, err)
	}
	items, err := Parse[T](data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, f.path, err)
	}
	f.log.Debug("loaded store file", zap.String("path", f.path), zap.Int("items", len(items)))
	if f.repair != nil && f.repair(items) {
		f.log.Info("writing back repaired store file", zap.String("path", f.path))
		if err := f.Save(items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Save replaces the whole file with items.
func (f *File[T]) Save(items []T) error {
	data, err := Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrUnavailable, err)
	}
	if err := f.write(data); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrUnavailable, f.path, err)
	}
	f.log.Debug("wrote store file", zap.String("path", f.path), zap.Int("items", len(items)), zap.Bool("atomic", f.atomic))
	return nil
}

func (f *File[T]) write(data []byte) error {
	if !f.atomic {
		return os.WriteFile(f.path, data, 0600)
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Modify loads the file, applies fn, and saves the result.
// If fn returns ErrSkipWrite the file is left as is and Modify returns nil.
//
// Example:
//
//	err := file.Modify(func(items []Book) ([]Book, error) {
//	    return append(items, b), nil
//	})
func (f *File[T]) Modify(fn func([]T) ([]T, error)) error {
	items, err := f.Load()
	if err != nil {
		return err
	}
	items, err = fn(items)
	if errors.Is(err, ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Save(items)
}
