// Package title normalizes pull request titles into the newsletter's house
// style: code-like words are wrapped in backticks and a Title-Case first
// word is lowercased.
package title

import "strings"

// CodeWords is a set of words that are always rendered as code.
type CodeWords map[string]struct{}

// NewCodeWords builds a CodeWords set. Empty strings are skipped.
func NewCodeWords(words ...string) CodeWords {
	set := make(CodeWords, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether w is a code word. A nil set contains nothing.
func (c CodeWords) Contains(w string) bool {
	_, ok := c[w]
	return ok
}

// Word is a single title token after its markers were stripped.
type Word struct {
	Text   string
	IsCode bool
	// Colon is set when a trailing colon was stripped; it is re-added
	// after the word, outside any closing backtick.
	Colon bool
}

// Span reports the backtick markers found on a token.
type Span struct {
	Enters bool
	Exits  bool
}

// Next folds the span into the "inside code" state for the following token.
func (s Span) Next(inCode bool) bool {
	return (inCode || s.Enters) && !s.Exits
}

// Classify strips a token's colon and backtick markers and decides whether
// it is code. inCode is the state threaded from the previous token.
func Classify(token string, inCode bool, words CodeWords) (Word, Span) {
	var span Span
	text, colon := strings.CutSuffix(token, ":")
	text, span.Exits = strings.CutSuffix(text, "`")
	if t, ok := strings.CutSuffix(text, ":"); ok {
		text, colon = t, true
	}
	text, span.Enters = strings.CutPrefix(text, "`")

	return Word{
		Text:   text,
		IsCode: span.Enters || inCode || looksLikeCode(text) || words.Contains(text),
		Colon:  colon,
	}, span
}

// looksLikeCode applies the syntactic code heuristics.
func looksLikeCode(text string) bool {
	switch {
	case HasUnescaped(text, "_"): // snake_case
		return true
	case HasUnescaped(text, "<"): // generics
		return true
	case strings.Contains(text, "::"): // paths
		return true
	case strings.Contains(text, "#["): // attributes
		return true
	}
	// calls like foo(), but not a parenthesized aside
	return strings.Contains(text, "(") && strings.HasSuffix(text, ")") && !strings.HasPrefix(text, "(")
}

// HasUnescaped reports whether needle occurs in haystack at least once
// without a backslash directly before it. Each occurrence is judged on
// its own.
func HasUnescaped(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for {
		pos := strings.Index(haystack, needle)
		if pos < 0 {
			return false
		}
		if pos == 0 || haystack[pos-1] != '\\' {
			return true
		}
		haystack = haystack[pos+len(needle):]
	}
}
