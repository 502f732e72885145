package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegularWhitespace(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		line string
		want bool
	}{
		"none":          {line: "text", want: true},
		"empty":         {line: "", want: true},
		"line break":    {line: "text  ", want: true},
		"one space":     {line: "text ", want: false},
		"three spaces":  {line: "text   ", want: false},
		"tab":           {line: "text\t", want: false},
		"only two":      {line: "  ", want: true},
		"space and tab": {line: "text \t", want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RegularWhitespace(tt.line))
		})
	}
}

func TestCheckTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		title   string
		wantMsg string
	}{
		"plain":                {title: "fix the thing"},
		"code span":            {title: "rename `foo_bar` to `Vec<T>`"},
		"escaped":              {title: "add \\_ and \\<"},
		"unescaped underscore": {title: "fix foo_bar", wantMsg: "unescaped `_`"},
		"unescaped bracket":    {title: "index [0]", wantMsg: "unescaped `[`"},
		"unescaped angle":      {title: "Vec<u8>", wantMsg: "unescaped `<`"},
		"odd backticks":        {title: "`foo` and `bar", wantMsg: "unmatched backticks"},
		"trailing backslash":   {title: "ends with \\", wantMsg: "wonky backslash"},
		"only first reported":  {title: "a_b [c]", wantMsg: "unescaped `_`"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			msg, ok := CheckTitle(tt.title)
			if tt.wantMsg == "" {
				assert.True(t, ok, msg)
				return
			}
			assert.False(t, ok)
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestCheckLink(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		link string
		want bool
	}{
		"pull request":     {link: "https://github.com/rust-lang/rust/pull/123", want: true},
		"dotted repo":      {link: "https://github.com/rust-lang/rust.vim/pull/1", want: true},
		"other org":        {link: "https://github.com/serde-rs/serde/issues/1", want: true},
		"not github":       {link: "https://crates.io/crates/foo", want: true},
		"issue":            {link: "https://github.com/rust-lang/rust/issues/123", want: false},
		"non numeric":      {link: "https://github.com/rust-lang/rust/pull/abc", want: false},
		"negative":         {link: "https://github.com/rust-lang/rust/pull/-1", want: false},
		"trailing segment": {link: "https://github.com/rust-lang/rust/pull/1/files", want: false},
		"bad repo char":    {link: "https://github.com/rust-lang/ru st/pull/1", want: false},
		"repo only":        {link: "https://github.com/rust-lang/rust", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			msg, ok := CheckLink(tt.link, "rust-lang")
			assert.Equal(t, tt.want, ok)
			if !tt.want {
				assert.Contains(t, msg, tt.link)
			}
		})
	}
}
