// Package lint validates a rendered draft against the newsletter's style
// rules. It checks whitespace hygiene in the tracked chapters, the
// structure of the updates chapter, and every entry's title and link.
// Violations are never swallowed: each one is reported and counted.
package lint

import (
	"fmt"
	"io"
	"strings"

	"github.com/twirer/twirer/internal/draft"
	"github.com/twirer/twirer/internal/entry"
	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/week"
)

// ViolationKind classifies a violation.
type ViolationKind int

const (
	// Whitespace is irregular trailing whitespace.
	Whitespace ViolationKind = iota
	// Section is a missing or malformed paragraph of the updates chapter.
	Section
	// EntryShape is a line that is not `* [title](link)`.
	EntryShape
	// Title is an unescaped or unbalanced character in an entry title.
	Title
	// Link is a malformed pull request link.
	Link
)

// String returns the kind label shown in diagnostics.
func (k ViolationKind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case Section:
		return "section"
	case EntryShape:
		return "entry"
	case Title:
		return "title"
	case Link:
		return "link"
	default:
		return "unknown"
	}
}

// Violation is one style rule broken by one line of the draft.
type Violation struct {
	Kind    ViolationKind
	Chapter string
	Line    string
	Message string
}

// String renders the violation as a one-line diagnostic.
func (v Violation) String() string {
	return v.Message
}

// ChapterResult holds the violations found in one tracked chapter.
type ChapterResult struct {
	Title      string
	Violations []Violation
}

// Report collects the results of all checked chapters.
type Report struct {
	Chapters []ChapterResult
}

// Count returns the total number of violations.
func (r *Report) Count() int {
	n := 0
	for _, c := range r.Chapters {
		n += len(c.Violations)
	}
	return n
}

// Options configures a Linter.
type Options struct {
	// Org is the GitHub organization whose pull request links are checked.
	Org string
	// OnViolation is called for every violation as it is found. When nil,
	// violations are written to Out.
	OnViolation func(Violation)
	// Out receives plain diagnostics when OnViolation is nil.
	Out io.Writer
}

// Linter checks drafts.
type Linter struct {
	org    string
	report func(Violation)
}

// New creates a Linter.
func New(opts Options) *Linter {
	report := opts.OnViolation
	if report == nil {
		out := opts.Out
		if out == nil {
			out = io.Discard
		}
		report = func(v Violation) { fmt.Fprintln(out, v) }
	}
	return &Linter{org: opts.Org, report: report}
}

// Chapter is a level-2 heading and the text up to the next one.
type Chapter struct {
	Title string
	Body  string
}

// Chapters splits a document on "\n##". Deeper headings split too, which
// ends a chapter's checked body at its first subsection.
func Chapters(doc string) []Chapter {
	parts := strings.Split(doc, "\n##")
	chapters := make([]Chapter, 0, len(parts))
	for _, p := range parts {
		heading, body, _ := strings.Cut(p, "\n")
		chapters = append(chapters, Chapter{Title: strings.TrimSpace(heading), Body: body})
	}
	return chapters
}

func tracked(title string) bool {
	switch title {
	case draft.ChapterCrate, draft.ChapterQuote, draft.ChapterUpdates:
		return true
	}
	return false
}

// Check lints doc. Chapters are checked in order; the first tracked
// chapter with violations stops the walk with a LintError carrying its
// count, after every violation of that chapter was reported.
func (l *Linter) Check(doc string) (*Report, error) {
	report := &Report{}
	for _, ch := range Chapters(doc) {
		if !tracked(ch.Title) {
			continue
		}

		c := &checker{chapter: ch.Title, org: l.org, report: l.report}
		c.whitespace(ch.Body)
		if ch.Title == draft.ChapterUpdates {
			c.updates(ch.Body)
		}

		report.Chapters = append(report.Chapters, ChapterResult{Title: ch.Title, Violations: c.found})
		if len(c.found) > 0 {
			return report, &twerrors.LintError{Chapter: ch.Title, Count: len(c.found)}
		}
	}
	return report, nil
}

// checker accumulates the violations of one chapter.
type checker struct {
	chapter string
	org     string
	report  func(Violation)
	found   []Violation
}

func (c *checker) add(kind ViolationKind, line, format string, args ...any) {
	v := Violation{Kind: kind, Chapter: c.chapter, Line: line, Message: fmt.Sprintf(format, args...)}
	c.found = append(c.found, v)
	c.report(v)
}

func (c *checker) whitespace(body string) {
	for _, line := range strings.Split(body, "\n") {
		if !RegularWhitespace(line) {
			c.add(Whitespace, line, "line: `%s` ends with irregular whitespace", line)
		}
	}
}

func (c *checker) updates(body string) {
	parts := strings.SplitN(body, "\n\n", 3)

	if !strings.HasSuffix(strings.TrimSpace(parts[0]), " "+draft.MergedPhrase) {
		c.add(Section, parts[0], "updates must start with \"N %s\"", draft.MergedPhrase)
	}
	if len(parts) < 2 {
		c.add(Section, "", "missing updates link")
		return
	}
	if prefix := "[merged]: " + week.SearchURLPrefix(c.org); !strings.HasPrefix(parts[1], prefix) {
		c.add(Section, parts[1], "updates link must start with %q", prefix)
	}
	if len(parts) < 3 {
		c.add(Section, "", "missing PRs")
		return
	}

	for _, line := range strings.Split(strings.TrimRight(parts[2], "\n"), "\n") {
		c.entry(line)
	}
}

func (c *checker) entry(line string) {
	e, err := entry.ParseStrict(line)
	if err != nil {
		c.add(EntryShape, line, "Wrong PR link: %s", line)
		return
	}
	if msg, ok := CheckTitle(e.Title); !ok {
		c.add(Title, line, "%s", msg)
	}
	if msg, ok := CheckLink(e.Link, c.org); !ok {
		c.add(Link, line, "%s", msg)
	}
}
