package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Reader is a read-only view of an export's files.
type Reader interface {
	// Open returns the content of the entry at the given relative path.
	// Missing entries fail with ErrMissingEntry.
	Open(name string) (io.ReadCloser, error)
	// Entries lists all relative file paths in the export, sorted.
	Entries() []string
	// Close releases the underlying archive handle, if any.
	Close() error
}

// Open inspects path and returns a directory- or zip-backed Reader.
func Open(path string) (Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("inspect export %s: %w", path, err)
	}
	if info.IsDir() {
		return &dirReader{root: path}, nil
	}
	return openZip(path)
}

type dirReader struct {
	root string
}

func (r *dirReader) Open(name string) (io.ReadCloser, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %s escapes the export root", ErrMissingEntry, name)
	}
	file, err := os.Open(filepath.Join(r.root, rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
		}
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	return file, nil
}

func (r *dirReader) Entries() []string {
	var entries []string
	_ = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return nil
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(entries)
	return entries
}

func (r *dirReader) Close() error { return nil }

type zipReader struct {
	rc      *zip.ReadCloser
	byName  map[string]*zip.File
	entries []string
}

func openZip(path string) (Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrBadArchive, path)
		}
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	byName := make(map[string]*zip.File, len(rc.File))
	entries := make([]string, 0, len(rc.File))
	for _, file := range rc.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := strings.TrimPrefix(file.Name, "./")
		byName[name] = file
		entries = append(entries, name)
	}
	sort.Strings(entries)

	return &zipReader{rc: rc, byName: byName, entries: entries}, nil
}

func (r *zipReader) Open(name string) (io.ReadCloser, error) {
	file, ok := r.byName[strings.TrimPrefix(name, "./")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
	}
	rd, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}
	return rd, nil
}

func (r *zipReader) Entries() []string {
	return r.entries
}

func (r *zipReader) Close() error {
	return r.rc.Close()
}
