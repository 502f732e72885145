// Package draft reads and edits the newsletter draft: it finds the draft
// file, reads its issue number, and splices the generated sections into the
// placeholders the editors leave behind.
package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/twirer/twirer/internal/week"
)

// Chapter headings checked by the linter.
const (
	ChapterCrate   = "Crate of the Week"
	ChapterQuote   = "Quote of the Week"
	ChapterUpdates = "Updates from the Rust Project"
)

// Placeholders the editors put into a fresh draft.
const (
	PlaceholderCrate   = "<!-- COTW goes here -->"
	PlaceholderQuote   = "<!-- QOTW goes here -->"
	PlaceholderUpdates = "<!-- Rust updates go here -->"
)

// Templates spliced in for the crate and quote chapters.
const (
	CrateTemplate = "This week's crate is [](), a \n\nThanks to []() for the suggestion!"
	QuoteTemplate = "> \n\n– []()\n\nThanks to []() for the suggestion!"
)

// MergedPhrase ends the first paragraph of the updates chapter.
const MergedPhrase = "pull requests were [merged in the last week][merged]"

// ErrNotFound is returned when the draft directory has no markdown file.
var ErrNotFound = errors.New("draft not found")

// Dir is the draft directory inside a newsletter checkout.
func Dir(twirDir string) string {
	return filepath.Join(twirDir, "draft")
}

// Find returns the path of the first markdown file in the draft directory.
func Find(twirDir string) (string, error) {
	dir := Dir(twirDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading draft directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), nil
}

// Number returns the issue number from the draft's "Number: " header.
func Number(contents string) (string, error) {
	_, rest, ok := strings.Cut(contents, "Number: ")
	if !ok {
		return "", errors.New("number not found in draft")
	}
	n, _, _ := strings.Cut(rest, "\n")
	return strings.TrimSpace(n), nil
}

// PreviousBranch returns the branch name of the issue before number, or
// false when number is not numeric.
func PreviousBranch(number string) (string, bool) {
	n, err := strconv.ParseUint(number, 10, 64)
	if err != nil || n == 0 {
		return "", false
	}
	return Branch(strconv.FormatUint(n-1, 10)), true
}

// Branch is the branch name used to submit the issue.
func Branch(number string) string {
	return "twir-" + number
}

// Ready reports whether all three placeholders are present.
func Ready(contents string) bool {
	return strings.Contains(contents, PlaceholderCrate) &&
		strings.Contains(contents, PlaceholderQuote) &&
		strings.Contains(contents, PlaceholderUpdates)
}

// Updates renders the updates chapter body.
func Updates(total int, w week.Window, org string, lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s\n\n", total, MergedPhrase)
	fmt.Fprintf(&b, "[merged]: %s\n\n", w.SearchURL(org))
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// CountLine is the record stored after fetching, the first paragraph of
// the updates chapter.
func CountLine(total int) string {
	return fmt.Sprintf("%d %s", total, MergedPhrase)
}

// Splice replaces the placeholders with the templates and the updates text.
func Splice(contents, updates string) string {
	r := strings.NewReplacer(
		PlaceholderCrate, CrateTemplate,
		PlaceholderQuote, QuoteTemplate,
		PlaceholderUpdates, updates,
	)
	return r.Replace(contents)
}

// Read loads the draft file.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading draft: %w", err)
	}
	return string(data), nil
}

// Write overwrites the draft file, keeping its permissions.
func Write(path, contents string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(contents), mode); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	return nil
}
