package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/frontmatter"
	"github.com/starford/raido/internal/models"
)

func tempJournal(t *testing.T) (string, *Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewRepository(dir)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	return dir, repo
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func rawEntry(tags, id string) string {
	content := "tags: " + tags + "\n"
	if id != "" {
		content += "id: " + id + "\n"
	}
	return content + "pubdate: 2020-04-05 12:41:17.111 -0400\n---\n\nbody\n"
}

func TestNewRepository_MissingDir(t *testing.T) {
	if _, err := NewRepository(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNewRepository_NotADir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRepository(file); err == nil {
		t.Fatal("expected error for non-directory")
	}
}

func TestScan_SortedAndFiltered(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2021-06-02-second.md", rawEntry("b", ""))
	writeRaw(t, dir, "2020-01-01-first.md", rawEntry("a", ""))
	writeRaw(t, dir, "notes.txt", "not a journal file")
	writeRaw(t, dir, "README.md", "also not one")

	var names []string
	for e, err := range repo.Scan() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		names = append(names, e.Filename)
	}
	if len(names) != 2 || names[0] != "2020-01-01-first.md" || names[1] != "2021-06-02-second.md" {
		t.Errorf("names = %v", names)
	}
}

func TestScan_MalformedFileIsolation(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-good.md", rawEntry("a", ""))
	writeRaw(t, dir, "2020-01-02-bad.md", "tags: x\npubdate: 2020-01-02 00:00:00.000 +0000\nno separator here")

	var good, bad int
	for _, err := range repo.Scan() {
		if err == nil {
			good++
			continue
		}
		var se *ScanError
		if !errors.As(err, &se) {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if se.Filename != "2020-01-02-bad.md" {
			t.Errorf("scan error filename = %q", se.Filename)
		}
		if !errors.Is(se, frontmatter.ErrMissingSeparator) {
			t.Errorf("scan error cause = %v", se.Err)
		}
		bad++
	}
	if good != 1 || bad != 1 {
		t.Errorf("good = %d, bad = %d, want 1 and 1", good, bad)
	}
}

func TestScan_Restartable(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-a.md", rawEntry("x", ""))
	writeRaw(t, dir, "2020-01-02-b.md", rawEntry("y", ""))

	seq := repo.Scan()
	for range 2 {
		var n int
		for _, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			n++
		}
		if n != 2 {
			t.Errorf("n = %d, want 2", n)
		}
	}
}

func TestFindByID_FirstMatchWins(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-03-01-later.md", rawEntry("", "x"))
	writeRaw(t, dir, "2020-01-01-earlier.md", rawEntry("", "x"))

	// Repeated lookups must be deterministic: the entry sorting first by
	// filename wins.
	for range 3 {
		e, err := repo.FindByID("x")
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if e.Filename != "2020-01-01-earlier.md" {
			t.Errorf("filename = %q, want the earlier file", e.Filename)
		}
	}
}

func TestFindByID_NotFound(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-a.md", rawEntry("", "other"))

	_, err := repo.FindByID("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFindByID_SkipsMalformed(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-broken.md", "id: x\nno separator")
	writeRaw(t, dir, "2020-02-01-ok.md", rawEntry("", "x"))

	e, err := repo.FindByID("x")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if e.Filename != "2020-02-01-ok.md" {
		t.Errorf("filename = %q", e.Filename)
	}
}

func TestTagCounts(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-one.md", rawEntry("a,b", ""))
	writeRaw(t, dir, "2020-01-02-two.md", rawEntry("b,c", ""))
	writeRaw(t, dir, "2020-01-03-three.md", rawEntry("a", ""))

	counts, scanErrs, err := repo.TagCounts()
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	if len(scanErrs) != 0 {
		t.Errorf("scan errors = %v", scanErrs)
	}
	want := map[string]int{"a": 2, "b": 2, "c": 1}
	if len(counts) != len(want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}
	for tag, n := range want {
		if counts[tag] != n {
			t.Errorf("counts[%q] = %d, want %d", tag, counts[tag], n)
		}
	}
}

func TestTagCounts_Idempotent(t *testing.T) {
	dir, repo := tempJournal(t)
	writeRaw(t, dir, "2020-01-01-one.md", rawEntry("a,b", ""))
	writeRaw(t, dir, "2020-01-02-bad.md", "broken")

	first, errs1, err := repo.TagCounts()
	if err != nil {
		t.Fatal(err)
	}
	second, errs2, err := repo.TagCounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) || len(errs1) != len(errs2) {
		t.Fatalf("scans differ: %v/%v vs %v/%v", first, errs1, second, errs2)
	}
	for tag, n := range first {
		if second[tag] != n {
			t.Errorf("second[%q] = %d, want %d", tag, second[tag], n)
		}
	}
}

func TestCreate_WritesDecodableFile(t *testing.T) {
	_, repo := tempJournal(t)
	now := time.Date(2020, 4, 5, 12, 41, 17, 111_000_000, time.FixedZone("", -4*3600))
	e := models.NewEntry("Morning Pages", []string{"work"}, "hello", now)
	e.ID = "morning-pages"
	e.Filename = EntryFilename(now, "Morning Pages")

	if err := repo.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries, scanErrs, err := repo.List()
	if err != nil || len(scanErrs) != 0 {
		t.Fatalf("List: %v %v", err, scanErrs)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.ID != "morning-pages" || got.Title != "morning-pages" {
		t.Errorf("id = %q, title = %q", got.ID, got.Title)
	}
	if !got.Pubdate.Equal(now) {
		t.Errorf("pubdate = %v, want %v", got.Pubdate, now)
	}
	if got.Body != "\nhello\n" {
		t.Errorf("body = %q", got.Body)
	}
}

func TestCreate_Collision(t *testing.T) {
	dir, repo := tempJournal(t)
	now := time.Date(2020, 4, 5, 10, 0, 0, 0, time.UTC)

	first := models.NewEntry("Same Title", nil, "original", now)
	first.Filename = EntryFilename(now, "Same Title")
	if err := repo.Create(first); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	second := models.NewEntry("Same Title", nil, "clobber attempt", now)
	second.Filename = EntryFilename(now, "Same Title")
	err := repo.Create(second)
	if !errors.Is(err, apperr.ErrFilenameCollision) {
		t.Fatalf("err = %v, want ErrFilenameCollision", err)
	}

	// The first file must be untouched.
	data, readErr := os.ReadFile(filepath.Join(dir, first.Filename))
	if readErr != nil {
		t.Fatal(readErr)
	}
	_, body, decErr := frontmatter.Decode(data)
	if decErr != nil {
		t.Fatal(decErr)
	}
	if body != "\noriginal\n" {
		t.Errorf("body = %q, first file was modified", body)
	}
}

func TestScan_DirectoryRemovedIsFatal(t *testing.T) {
	dir, repo := tempJournal(t)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}

	var fatal error
	for _, err := range repo.Scan() {
		if err != nil {
			var se *ScanError
			if errors.As(err, &se) {
				t.Fatalf("expected a fatal error, got scan error %v", se)
			}
			fatal = err
		}
	}
	if fatal == nil {
		t.Fatal("expected a directory-level error")
	}
}
