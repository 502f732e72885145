package search

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TokenEnv is the environment variable holding the GitHub token.
const TokenEnv = "GH_TOKEN"

// Token returns $GH_TOKEN, or prompts for a token on out and reads one
// line from in. Input from a terminal is not echoed.
func Token(in io.Reader, out io.Writer) (string, error) {
	if tok, ok := os.LookupEnv(TokenEnv); ok {
		return tok, nil
	}

	fmt.Fprint(out, "token: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
