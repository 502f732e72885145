// Package week handles the merge-date window a digest covers.
package week

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// Layout is the date layout used in window specs.
const Layout = "2006-01-02"

// Length is the size of one window.
const Length = 7 * 24 * time.Hour

// Window is a merge-date range, rendered as "YYYY-MM-DD..YYYY-MM-DD".
type Window struct {
	Since time.Time
	Until time.Time
}

// Parse reads a window spec. Surrounding whitespace is ignored.
func Parse(spec string) (Window, error) {
	spec = strings.TrimSpace(spec)
	since, until, ok := strings.Cut(spec, "..")
	if !ok {
		return Window{}, &twerrors.CacheFormatError{
			Record: "week_spec", Text: spec, Reason: "expected YYYY-MM-DD..YYYY-MM-DD",
		}
	}

	var w Window
	var err error
	if w.Since, err = time.Parse(Layout, since); err != nil {
		return Window{}, &twerrors.CacheFormatError{Record: "week_spec", Text: spec, Reason: "invalid start date"}
	}
	if w.Until, err = time.Parse(Layout, until); err != nil {
		return Window{}, &twerrors.CacheFormatError{Record: "week_spec", Text: spec, Reason: "invalid end date"}
	}
	return w, nil
}

// Next returns the window starting where w ends.
func (w Window) Next() Window {
	return Window{Since: w.Until, Until: w.Until.Add(Length)}
}

// String renders the window spec.
func (w Window) String() string {
	return w.Since.Format(Layout) + ".." + w.Until.Format(Layout)
}

// Query is the GitHub search query for pull requests of org merged in w.
func (w Window) Query(org string) string {
	return fmt.Sprintf("is:pr org:%s is:merged merged:%s", org, w)
}

// SearchURL is the github.com search page listing the same pull requests.
func (w Window) SearchURL(org string) string {
	return SearchURLPrefix(org) + w.String()
}

// SearchURLPrefix is the search page URL up to the window spec.
func SearchURLPrefix(org string) string {
	return "https://github.com/search?q=is%3Apr+org%3A" + url.QueryEscape(org) + "+is%3Amerged+merged%3A"
}
