// Package frontmatter encodes and decodes the structured header block of a
// journal entry file: key/value lines terminated by a `---` separator line,
// followed by a free-form body.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Separator is the line that terminates the header block.
const Separator = "---"

// TimeLayout is the pubdate wire format: millisecond precision with an
// explicit numeric UTC offset. Encode and Decode share it so timestamps
// round-trip exactly.
const TimeLayout = "2006-01-02 15:04:05.000 -0700"

// Decode failure kinds, matchable with errors.Is.
var (
	ErrMissingSeparator    = errors.New("missing separator line")
	ErrMalformedHeaderLine = errors.New("malformed header line")
	ErrInvalidTimestamp    = errors.New("invalid pubdate timestamp")
)

// Field is a header key/value pair the codec does not interpret. Unknown keys
// are kept in source order and re-emitted verbatim on Encode, so hand-added
// fields survive a decode/encode cycle.
type Field struct {
	Key   string
	Value string
}

// Header is the parsed frontmatter of a single entry.
type Header struct {
	// Tags in first-occurrence order, trimmed, no empties, no duplicates.
	Tags []string
	// ID is the optional user-chosen token. Empty means absent.
	ID string
	// Pubdate carries the fixed offset it was written with.
	Pubdate time.Time
	// Extra holds unrecognized keys (including a stray "title") in the
	// order they appeared.
	Extra []Field
}

// Decode splits raw entry bytes into a Header and the body. The body is
// everything after the separator line, byte-exact including any leading
// blank line.
func Decode(data []byte) (*Header, string, error) {
	text := string(data)

	sep := -1
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, "\r") == Separator {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil, "", fmt.Errorf("frontmatter: %w", ErrMissingSeparator)
	}

	h := &Header{}
	havePubdate := false
	for _, line := range lines[:sep] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, "", fmt.Errorf("frontmatter: line %q: %w", line, ErrMalformedHeaderLine)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "tags":
			h.Tags = splitTags(value)
		case "id":
			h.ID = value
		case "pubdate":
			t, err := time.Parse(TimeLayout, value)
			if err != nil {
				return nil, "", fmt.Errorf("frontmatter: pubdate %q: %w", value, ErrInvalidTimestamp)
			}
			h.Pubdate = t
			havePubdate = true
		default:
			h.Extra = append(h.Extra, Field{Key: key, Value: value})
		}
	}
	if !havePubdate {
		return nil, "", fmt.Errorf("frontmatter: pubdate not present: %w", ErrInvalidTimestamp)
	}

	body := strings.Join(lines[sep+1:], "\n")
	return h, body, nil
}

// Encode renders a Header and body in the fixed field order: tags, id
// (omitted when absent), pubdate, preserved unknown fields, separator, body.
// Tags are comma-joined with no spaces, in the order they are held.
func Encode(h *Header, body string) []byte {
	var b strings.Builder

	if len(h.Tags) > 0 {
		b.WriteString("tags: " + strings.Join(h.Tags, ",") + "\n")
	} else {
		b.WriteString("tags:\n")
	}
	if h.ID != "" {
		b.WriteString("id: " + h.ID + "\n")
	}
	b.WriteString("pubdate: " + h.Pubdate.Format(TimeLayout) + "\n")
	for _, f := range h.Extra {
		b.WriteString(f.Key + ": " + f.Value + "\n")
	}
	b.WriteString(Separator + "\n")
	b.WriteString(body)

	return []byte(b.String())
}

// splitTags parses a comma-separated tag list: elements trimmed, empties
// dropped, duplicates dropped, first occurrence wins.
func splitTags(value string) []string {
	if value == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range strings.Split(value, ",") {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
