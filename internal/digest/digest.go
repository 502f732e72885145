// Package digest runs the weekly pipeline: fetch the merged pull requests
// of a window, store them as raw entry lines, then filter them into the
// ordered list spliced into the draft.
package digest

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/twirer/twirer/internal/draft"
	"github.com/twirer/twirer/internal/entry"
	"github.com/twirer/twirer/internal/filter"
	"github.com/twirer/twirer/internal/progress"
	"github.com/twirer/twirer/internal/search"
	"github.com/twirer/twirer/internal/store"
	"github.com/twirer/twirer/internal/title"
	"github.com/twirer/twirer/internal/week"
)

// DefaultAliases maps repository names to the prefix put before their
// titles.
var DefaultAliases = map[string]string{
	"rust-clippy":       "clippy",
	"rustfmt":           "rustfmt",
	"cargo":             "cargo",
	"rustc_codegen_gcc": "codegen\\_gcc",
	"futures-rs":        "futures",
	"rustup":            "rustup",
	"libc":              "libc",
	"docs.rs":           "docs.rs",
	"hashbrown":         "hashbrown",
	"miri":              "miri",
	"rust-analyzer":     "rust-analyzer",
	"rust-bindgen":      "bindgen",
}

// Searcher lists the pull requests matching a search query.
type Searcher interface {
	Merged(ctx context.Context, query string) (*search.Listing, error)
}

// RawLine renders a search record as a raw entry line. Records from an
// aliased repository of org get the alias as title prefix unless the
// title already starts with it.
func RawLine(rec search.Record, org string, aliases map[string]string) string {
	title := strings.Trim(rec.Title, " .")
	if alias, ok := aliases[repoOf(rec.URL, org)]; ok && !strings.HasPrefix(rec.Title, alias) {
		title = alias + ": " + title
	}
	return entry.New(title, rec.URL).Render()
}

func repoOf(link, org string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	rest, ok := strings.CutPrefix(u.Path, "/"+org+"/")
	if !ok {
		return ""
	}
	repo, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return repo
}

// Rules are the configured filter lists.
type Rules struct {
	Ignore    []string
	Order     []string
	CodeWords []string
}

// Config configures a Pipeline.
type Config struct {
	Store   store.Store
	Search  Searcher
	Org     string
	Aliases map[string]string
	Display *progress.Display
	Logger  *zap.Logger
}

// Pipeline moves records from the search API through the record store.
type Pipeline struct {
	store   store.Store
	search  Searcher
	org     string
	aliases map[string]string
	display *progress.Display
	log     *zap.Logger
}

// New creates a Pipeline. Search may be nil for commands that only work
// on stored records.
func New(cfg Config) *Pipeline {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	aliases := cfg.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Pipeline{
		store:   cfg.Store,
		search:  cfg.Search,
		org:     cfg.Org,
		aliases: aliases,
		display: cfg.Display,
		log:     log,
	}
}

// Window loads the stored week window.
func (p *Pipeline) Window(ctx context.Context) (week.Window, error) {
	spec, err := store.LoadText(ctx, p.store, store.WeekSpec)
	if err != nil {
		return week.Window{}, fmt.Errorf("loading week window: %w", err)
	}
	return week.Parse(spec)
}

// AdvanceWeek stores and returns the window following the stored one.
func (p *Pipeline) AdvanceWeek(ctx context.Context) (week.Window, error) {
	w, err := p.Window(ctx)
	if err != nil {
		return week.Window{}, err
	}
	next := w.Next()
	if err := store.SaveText(ctx, p.store, store.WeekSpec, next.String()); err != nil {
		return week.Window{}, fmt.Errorf("saving week window: %w", err)
	}
	p.log.Debug("advanced week", zap.Stringer("from", w), zap.Stringer("to", next))
	return next, nil
}

// Fetch searches the merged pull requests of w, stores their raw lines
// and the count sentence, and returns the total reported by the API.
func (p *Pipeline) Fetch(ctx context.Context, w week.Window) (int, error) {
	if p.search == nil {
		return 0, fmt.Errorf("no search client configured")
	}

	p.display.Start("fetching merged pull requests for " + w.String())
	listing, err := p.search.Merged(ctx, w.Query(p.org))
	if err != nil {
		p.display.Fail("fetching merged pull requests", err)
		return 0, err
	}

	lines := make([]string, 0, len(listing.Records))
	for _, rec := range listing.Records {
		lines = append(lines, RawLine(rec, p.org, p.aliases))
	}

	if err := store.SaveText(ctx, p.store, store.NumPRs, draft.CountLine(listing.Total)); err != nil {
		p.display.Fail("saving count", err)
		return 0, fmt.Errorf("saving count: %w", err)
	}
	if err := p.store.Save(ctx, store.PRs, lines); err != nil {
		p.display.Fail("saving pull requests", err)
		return 0, fmt.Errorf("saving pull requests: %w", err)
	}

	p.display.Done(fmt.Sprintf("found %d pull requests", listing.Total))
	p.log.Debug("fetched pull requests",
		zap.Int("total", listing.Total),
		zap.Int("records", len(lines)))
	return listing.Total, nil
}

// Filter applies rules to the stored raw lines, dropping entries announced
// in the previous run, and stores and returns the result.
func (p *Pipeline) Filter(ctx context.Context, rules Rules) ([]string, error) {
	previous, err := p.store.Load(ctx, store.LastPRs)
	if err != nil {
		return nil, fmt.Errorf("loading previous pull requests: %w", err)
	}
	raw, err := p.store.Load(ctx, store.PRs)
	if err != nil {
		return nil, fmt.Errorf("loading pull requests: %w", err)
	}

	lines := filter.Apply(raw, filter.Options{
		Previous:  filter.NewLinkSet(previous),
		Ignore:    rules.Ignore,
		CodeWords: title.NewCodeWords(rules.CodeWords...),
		Order:     rules.Order,
	})

	if err := p.store.Save(ctx, store.FilteredPRs, lines); err != nil {
		return nil, fmt.Errorf("saving filtered pull requests: %w", err)
	}
	p.log.Debug("filtered pull requests",
		zap.Int("raw", len(raw)),
		zap.Int("previous", len(previous)),
		zap.Int("kept", len(lines)))
	return lines, nil
}

// Updates renders the updates chapter for the filtered lines.
func (p *Pipeline) Updates(total int, w week.Window, lines []string) string {
	return draft.Updates(total, w, p.org, lines)
}

// Rotate makes this run's raw lines the previous run's.
func (p *Pipeline) Rotate(ctx context.Context) error {
	if err := p.store.Rename(ctx, store.PRs, store.LastPRs); err != nil {
		return fmt.Errorf("rotating pull requests: %w", err)
	}
	return nil
}
