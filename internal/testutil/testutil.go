// Package testutil provides shared test helpers for setting up journal directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/journal"
)

// TestJournal creates a temporary journal directory with a Repository.
func TestJournal(t *testing.T) (string, *journal.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := journal.NewRepository(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, repo
}

// WriteFile drops raw file content into the journal directory.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ValidEntry returns raw entry file content with the given header lines.
func ValidEntry(tags, id string) string {
	content := "tags: " + tags + "\n"
	if id != "" {
		content += "id: " + id + "\n"
	}
	content += "pubdate: 2020-04-05 12:41:17.111 -0400\n---\n\nbody\n"
	return content
}
