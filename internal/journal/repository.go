// Package journal enumerates a flat directory of entry files and answers
// queries over it: find-by-id, list-all, tag aggregation. The directory is
// read in full on every operation; nothing is cached across calls.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/models"
)

// Repository reads and writes entries in a single journal directory.
type Repository struct {
	dir string // absolute path to the journal directory
}

// NewRepository creates a Repository rooted at the given directory.
// The directory must already exist.
func NewRepository(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("journal: resolve dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("journal: stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("journal: not a directory: %s", abs)
	}
	return &Repository{dir: abs}, nil
}

// Dir returns the absolute journal directory path.
func (r *Repository) Dir() string {
	return r.dir
}

// Path returns the absolute path of a file within the journal directory.
func (r *Repository) Path(filename string) string {
	return filepath.Join(r.dir, filename)
}

// ScanError reports a single file that could not be read or decoded. It is
// non-fatal: the scan carries on past it.
type ScanError struct {
	Filename string
	Err      error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scan returns a lazy, restartable sequence over the journal in filename
// order, which is also creation-date order by construction. Files whose names
// do not match the entry pattern are skipped. A file that fails to decode is
// yielded as a *ScanError and the scan continues; a failure to read the
// directory itself is yielded as a plain error and ends the sequence.
func (r *Repository) Scan() iter.Seq2[*models.Entry, error] {
	return func(yield func(*models.Entry, error) bool) {
		names, err := r.entryFilenames()
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			e, err := r.load(name)
			if err != nil {
				if !yield(nil, &ScanError{Filename: name, Err: err}) {
					return
				}
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// List scans the whole journal, splitting decoded entries from per-file
// failures. Only a directory-level read failure is returned as an error.
func (r *Repository) List() ([]*models.Entry, []*ScanError, error) {
	var entries []*models.Entry
	var scanErrs []*ScanError
	for e, err := range r.Scan() {
		if err != nil {
			var se *ScanError
			if errors.As(err, &se) {
				scanErrs = append(scanErrs, se)
				continue
			}
			return nil, nil, err
		}
		entries = append(entries, e)
	}
	return entries, scanErrs, nil
}

// FindByID returns the first entry in filename order whose id equals the
// query. Duplicate ids are tolerated; first match wins. Files that fail to
// decode can never match. Returns apperr.ErrNotFound when nothing matches.
func (r *Repository) FindByID(id string) (*models.Entry, error) {
	if id == "" {
		return nil, fmt.Errorf("journal: empty id: %w", apperr.ErrNotFound)
	}
	for e, err := range r.Scan() {
		if err != nil {
			var se *ScanError
			if errors.As(err, &se) {
				continue
			}
			return nil, err
		}
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("journal: entry with id %q: %w", id, apperr.ErrNotFound)
}

// TagCounts scans all valid entries and counts one increment per (entry, tag)
// pair. Malformed entries contribute nothing and are reported alongside.
func (r *Repository) TagCounts() (map[string]int, []*ScanError, error) {
	entries, scanErrs, err := r.List()
	if err != nil {
		return nil, nil, err
	}
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	return counts, scanErrs, nil
}

// Create encodes the entry and writes it as a new file. An already existing
// file fails with apperr.ErrFilenameCollision; an entry is never overwritten.
func (r *Repository) Create(e *models.Entry) error {
	path := r.Path(e.Filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("journal: %s: %w", path, apperr.ErrFilenameCollision)
		}
		return fmt.Errorf("journal: create %s: %w", path, err)
	}
	if _, err := f.Write(e.Encode()); err != nil {
		f.Close()
		return fmt.Errorf("journal: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("journal: close %s: %w", path, err)
	}
	return nil
}

// entryFilenames lists the journal directory and keeps only names matching
// the entry filename pattern. os.ReadDir returns names sorted, which fixes
// the scan order.
func (r *Repository) entryFilenames() ([]string, error) {
	dirents, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("journal: read dir %s: %w", r.dir, err)
	}
	var names []string
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		if _, _, ok := ParseFilename(d.Name()); !ok {
			continue
		}
		names = append(names, d.Name())
	}
	return names, nil
}

// load reads and decodes a single entry file.
func (r *Repository) load(name string) (*models.Entry, error) {
	data, err := os.ReadFile(r.Path(name))
	if err != nil {
		return nil, err
	}
	h, body, err := frontmatter.Decode(data)
	if err != nil {
		return nil, err
	}
	_, slug, _ := ParseFilename(name)
	return &models.Entry{
		Header:   *h,
		Filename: name,
		Title:    slug,
		Body:     body,
	}, nil
}
