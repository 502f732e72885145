// Package filter turns the raw fetched entries into the ordered list that is
// spliced into the draft: entries announced last week and ignored entries
// are dropped, titles are formatted and the rest is ordered by repository.
package filter

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/twirer/twirer/internal/entry"
	"github.com/twirer/twirer/internal/title"
)

// LinkSet holds the dedup keys of the previous run's accepted entries.
type LinkSet map[string]struct{}

// NewLinkSet parses previously accepted lines into a LinkSet.
func NewLinkSet(lines []string) LinkSet {
	set := make(LinkSet, len(lines))
	for _, line := range lines {
		set[entry.Parse(line).Key()] = struct{}{}
	}
	return set
}

// Contains reports whether key was seen in the previous run.
func (s LinkSet) Contains(key string) bool {
	_, ok := s[key]
	return ok
}

// Options configures Apply.
type Options struct {
	Previous  LinkSet
	Ignore    []string
	CodeWords title.CodeWords
	// Order lists repository short names by priority. Repositories not
	// listed sort after all listed ones.
	Order []string
}

type ranked struct {
	entry entry.Entry
	rank  int
	repo  string
}

// Apply filters, formats and orders raw entry lines.
func Apply(lines []string, opts Options) []string {
	ignore := lowerAll(opts.Ignore)

	kept := make([]ranked, 0, len(lines))
	for _, line := range lines {
		e := entry.Parse(line)
		if opts.Previous.Contains(e.Key()) {
			continue
		}
		if containsAny(strings.ToLower(line), ignore) {
			continue
		}
		e.Title = title.Format(e.Title, opts.CodeWords)
		kept = append(kept, rank(e, opts.Order))
	}

	slices.SortStableFunc(kept, func(a, b ranked) int {
		return cmp.Or(
			cmp.Compare(a.rank, b.rank),
			cmp.Compare(a.repo, b.repo),
			cmp.Compare(a.entry.Title, b.entry.Title),
		)
	})

	out := make([]string, len(kept))
	for i, r := range kept {
		out[i] = r.entry.Render()
	}
	return out
}

// rank computes the sort key of an entry. Malformed entries and entries
// without a repository segment rank last.
func rank(e entry.Entry, order []string) ranked {
	r := ranked{entry: e, rank: math.MaxInt}
	if e.Malformed {
		return r
	}
	r.repo = e.Repo()
	if r.repo == "" {
		return r
	}
	if i := slices.Index(order, r.repo); i >= 0 {
		r.rank = i
	}
	return r
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}
