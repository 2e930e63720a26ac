package journal

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var (
	filenameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.md$`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases the title, collapses non-alphanumeric runs to a single
// hyphen, and trims leading and trailing hyphens.
func Slugify(title string) string {
	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// EntryFilename derives the canonical filename for an entry created at t with
// the given title: YYYY-MM-DD-<slug>.md.
func EntryFilename(t time.Time, title string) string {
	return t.Format(dateLayout) + "-" + Slugify(title) + ".md"
}

// ParseFilename splits a filename back into its creation date and slug.
// Names that do not match the YYYY-MM-DD-<slug>.md pattern, or that carry an
// impossible calendar date, report ok=false; scans skip them silently since a
// journal directory may hold other files.
func ParseFilename(name string) (date time.Time, slug string, ok bool) {
	m := filenameRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", false
	}
	d, err := time.Parse(dateLayout, m[1])
	if err != nil {
		return time.Time{}, "", false
	}
	return d, m[2], true
}
