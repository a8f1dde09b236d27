package util

import (
	"os"
	"path/filepath"
	"strings"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResolvePath expands ~ and joins relative names onto base. Absolute paths
// are returned unchanged.
func ResolvePath(base, name string) string {
	name = ExpandHome(name)
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ExpandHome(base), name)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
