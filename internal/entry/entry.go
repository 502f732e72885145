// Package entry is the single codec for the `* [title](link)` lines stored
// in the record store and rendered into the draft. The filter, the fetcher
// and the linter all parse and render through it.
package entry

import (
	"net/url"
	"strings"

	twerrors "github.com/twirer/twirer/internal/errors"
)

const (
	prefix = "* ["
	delim  = "]("
	suffix = ")"
)

// Entry is one merged change announcement.
type Entry struct {
	Title string
	Link  string
	// Malformed is set when the line had no "](" delimiter. The whole line
	// (minus a leading "* [") is then the title.
	Malformed bool
}

// Parse splits a stored line on its last "](". Titles may contain "[" and
// "(" so the rightmost delimiter is the only safe split point. Parse never
// fails: a line without the delimiter becomes a title-only entry.
func Parse(line string) Entry {
	i := strings.LastIndex(line, delim)
	if i < 0 {
		return Entry{Title: strings.TrimPrefix(line, prefix), Malformed: true}
	}
	return Entry{
		Title: strings.TrimPrefix(line[:i], prefix),
		Link:  strings.TrimSuffix(line[i+len(delim):], suffix),
	}
}

// ParseStrict parses a rendered line and rejects anything that is not
// exactly `* [title](link)`.
func ParseStrict(line string) (Entry, error) {
	shapeErr := func(reason string) error {
		return &twerrors.CacheFormatError{Record: "entry", Text: line, Reason: reason}
	}
	if !strings.HasPrefix(line, prefix) {
		return Entry{}, shapeErr(`missing "* [" prefix`)
	}
	if !strings.HasSuffix(line, suffix) {
		return Entry{}, shapeErr(`missing closing ")"`)
	}
	if !strings.Contains(line, delim) {
		return Entry{}, shapeErr(`missing "](" between title and link`)
	}
	return Parse(line), nil
}

// Render formats the entry as a stored line.
func (e Entry) Render() string {
	return prefix + e.Title + delim + e.Link + suffix
}

// Key is the identity used to deduplicate against the previous run.
func (e Entry) Key() string {
	if e.Malformed {
		return e.Title
	}
	return e.Link
}

// Repo returns the repository segment of a github.com/{org}/{repo}/...
// link, or "" when the link has no such segment.
func (e Entry) Repo() string {
	u, err := url.Parse(e.Link)
	if err != nil || u.Host == "" {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[1]
}

// New builds an entry from a title and link.
func New(title, link string) Entry {
	return Entry{Title: title, Link: link}
}
