// Package models defines the domain types for Raido.
package models

import (
	"time"

	"github.com/starford/raido/internal/frontmatter"
)

// Entry represents one journal record, backed by exactly one file.
type Entry struct {
	frontmatter.Header

	// Filename is the on-disk name within the journal directory. It encodes
	// the pubdate's date component plus the slugified title; it is never
	// stored in the header.
	Filename string

	// Title is the slug parsed back out of the filename.
	Title string

	// Body is everything after the header separator, opaque to the tool.
	Body string
}

// NewEntry constructs a fresh in-memory entry at creation time. The body is
// prefixed with a blank line so the file reads as header, separator, blank
// line, text.
func NewEntry(title string, tags []string, body string, now time.Time) *Entry {
	if body != "" && body[len(body)-1] != '\n' {
		body += "\n"
	}
	return &Entry{
		Header: frontmatter.Header{
			Tags:    tags,
			Pubdate: now,
		},
		Title: title,
		Body:  "\n" + body,
	}
}

// Encode renders the entry in its on-disk format.
func (e *Entry) Encode() []byte {
	return frontmatter.Encode(&e.Header, e.Body)
}
