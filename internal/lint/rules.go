package lint

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RegularWhitespace reports whether line ends in exactly zero or exactly
// two whitespace characters. Two trailing spaces are a markdown line break.
func RegularWhitespace(line string) bool {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	n := len([]rune(line)) - len([]rune(trimmed))
	return n == 0 || n == 2
}

// CheckTitle reports the first problem in a rendered title: an unescaped
// markdown character outside a backtick span, an unclosed span or a
// trailing backslash.
func CheckTitle(title string) (string, bool) {
	inCode := false
	escaped := false
	for _, r := range title {
		if r == '`' {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if !escaped && strings.ContainsRune("<>[]_", r) {
			return fmt.Sprintf("unescaped `%c` in non-code title: %s", r, title), false
		}
		escaped = r == '\\'
	}

	switch {
	case escaped:
		return "wonky backslash at the end: " + title, false
	case inCode:
		return "unmatched backticks in " + title, false
	}
	return "", true
}

// CheckLink validates links into org's repositories. They must point at a
// pull request: {repo}/pull/{number}. Links elsewhere are not checked.
func CheckLink(link, org string) (string, bool) {
	rest, ok := strings.CutPrefix(link, "https://github.com/"+org+"/")
	if !ok {
		return "", true
	}

	parts := strings.SplitN(rest, "/", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	repo, pull, number := parts[0], parts[1], parts[2]

	if repo == "" || !validRepo(repo) || pull != "pull" {
		return "wrong link: " + link, false
	}
	if _, err := strconv.ParseUint(number, 10, 32); err != nil {
		return "wrong link: " + link, false
	}
	return "", true
}

func validRepo(repo string) bool {
	for _, r := range repo {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
