package title

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format rewrites a raw title: runs of code words are wrapped in a single
// backtick span and a leading Title-Case word is lowercased. The result has
// balanced backticks and formatting it again returns it unchanged.
func Format(raw string, words CodeWords) string {
	parsed := classifyAll(strings.Fields(raw), words)
	decapitalize(parsed, words)

	var b strings.Builder
	for i, w := range parsed {
		if i > 0 {
			b.WriteByte(' ')
		}
		if w.IsCode && (i == 0 || !parsed[i-1].IsCode) {
			b.WriteByte('`')
		}
		b.WriteString(w.Text)
		if w.IsCode && (i == len(parsed)-1 || !parsed[i+1].IsCode) {
			b.WriteByte('`')
		}
		if w.Colon {
			b.WriteByte(':')
		}
	}
	return b.String()
}

// classifyAll folds Classify across tokens and cleans each word so only
// the spans Format writes carry backticks. A token with a backtick left
// inside it is code; tokens that are nothing but markers are dropped.
func classifyAll(tokens []string, words CodeWords) []Word {
	parsed := make([]Word, 0, len(tokens))
	inCode := false
	for _, tok := range tokens {
		w, span := Classify(tok, inCode, words)
		inCode = span.Next(inCode)

		if strings.Contains(w.Text, "`") {
			w.Text = strings.ReplaceAll(w.Text, "`", "")
			w.IsCode = true
		}
		if t := strings.TrimRight(w.Text, ":"); t != w.Text {
			w.Text, w.Colon = t, true
		}
		if w.Text == "" {
			continue
		}
		w.IsCode = w.IsCode || looksLikeCode(w.Text) || words.Contains(w.Text)
		parsed = append(parsed, w)
	}
	return parsed
}

// decapitalize lowercases the first non-code Title-Case word. Labels
// ending in a colon keep the marker alive, any other word or a code span
// consumes it. A word that becomes a code word once lowercased turns into
// code.
func decapitalize(parsed []Word, words CodeWords) {
	first := true
	for i := range parsed {
		w := &parsed[i]
		switch {
		case !first:
			return
		case w.IsCode:
			first = false
		case isTitleCase(w.Text):
			w.Text = lowerFirst(w.Text)
			w.IsCode = words.Contains(w.Text)
			first = w.Colon && !w.IsCode
		default:
			first = w.Colon
		}
	}
}

// isTitleCase reports whether s starts uppercase and has a lowercase letter,
// which tells "Fix" apart from an acronym like "CI".
func isTitleCase(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
