// Package journalservice coordinates the repository and the external editor
// behind the CLI operations.
package journalservice

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/raido/internal/editor"
	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/models"
)

// TagCount is one line of the tag listing.
type TagCount struct {
	Tag   string
	Count int
}

// Service coordinates repository and editor operations.
type Service struct {
	repo   *journal.Repository
	editor *editor.Editor
	logger *slog.Logger
}

// NewService creates a new journal service.
func NewService(repo *journal.Repository, ed *editor.Editor, logger *slog.Logger) *Service {
	return &Service{repo: repo, editor: ed, logger: logger}
}

// CreateEntry writes a fresh entry and opens it in the editor. The slug
// doubles as the entry id unless another entry already claims it, in which
// case the id is left empty and the entry stays reachable by filename only.
func (s *Service) CreateEntry(ctx context.Context, title string, tags []string, body string) (*models.Entry, error) {
	slug := journal.Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("journalservice: title %q produces an empty slug", title)
	}

	now := time.Now()
	e := models.NewEntry(title, tags, body, now)
	e.Filename = journal.EntryFilename(now, title)

	taken, err := s.idTaken(slug)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Warn("id already in use, leaving new entry without one",
			slog.String("id", slug))
	} else {
		e.ID = slug
	}

	if err := s.repo.Create(e); err != nil {
		return nil, err
	}
	if err := s.editor.Open(ctx, s.repo.Path(e.Filename)); err != nil {
		return nil, err
	}
	return e, nil
}

// EditByID finds the first entry carrying the id and opens it in the editor.
func (s *Service) EditByID(ctx context.Context, id string) (*models.Entry, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.editor.Open(ctx, s.repo.Path(e.Filename)); err != nil {
		return nil, err
	}
	return e, nil
}

// TagCounts aggregates tags across the journal, sorted by ascending count
// with ties broken by tag name. Files that failed to decode are logged and
// excluded from the aggregate.
func (s *Service) TagCounts() ([]TagCount, error) {
	counts, scanErrs, err := s.repo.TagCounts()
	if err != nil {
		return nil, err
	}
	s.logScanErrors(scanErrs)

	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(a.Count, b.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out, nil
}

// ListIDs returns the id of every valid entry in filename order. Entries
// without an id are skipped; duplicate ids appear once per entry.
func (s *Service) ListIDs() ([]string, error) {
	entries, scanErrs, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	s.logScanErrors(scanErrs)

	var ids []string
	for _, e := range entries {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// EntryPath returns the absolute on-disk path of an entry.
func (s *Service) EntryPath(e *models.Entry) string {
	return s.repo.Path(e.Filename)
}

// idTaken reports whether any decodable entry already uses the id.
func (s *Service) idTaken(id string) (bool, error) {
	for e, err := range s.repo.Scan() {
		if err != nil {
			var se *journal.ScanError
			if errors.As(err, &se) {
				continue
			}
			return false, err
		}
		if e.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) logScanErrors(scanErrs []*journal.ScanError) {
	for _, se := range scanErrs {
		s.logger.Warn("skipping malformed entry",
			slog.String("file", s.repo.Path(se.Filename)),
			slog.String("error", se.Err.Error()))
	}
}
