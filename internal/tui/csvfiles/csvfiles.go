// ABOUTME: Discovers CSV files the driver upload can offer
// ABOUTME: Looks in PAINEL_CSV_DIR or the working directory

package csvfiles

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a discovered CSV file
type File struct {
	Name string // Filename (e.g., "drivers-2024.csv")
	Path string // Full path to the file
	Size int64
}

// IsCSV reports whether path has a .csv extension
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Discover finds all CSV files in the given directory, sorted by name
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []File{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := []File{}
	for _, entry := range entries {
		if entry.IsDir() || !IsCSV(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}

// FindDir locates the directory to list CSV files from.
// Checks in order:
// 1. the configured directory (PAINEL_CSV_DIR)
// 2. the working directory
func FindDir(configured string) string {
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && info.IsDir() {
			return configured
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}
