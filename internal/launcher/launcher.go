// Package launcher runs the programs the editor works in: the text editor
// for the draft and the browser for the forum threads and the pull request
// page. Both are configured as command lines and may carry arguments.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// NewTabFlag is passed before every URL opened in the browser.
const NewTabFlag = "--new-tab"

// Forum threads collecting the crate and quote suggestions.
const (
	CrateThreadURL = "https://users.rust-lang.org/t/crate-of-the-week/2704/last"
	QuoteThreadURL = "https://users.rust-lang.org/t/twir-quote-of-the-week/328/last"
)

// Options configures a Launcher.
type Options struct {
	Editor  string
	Browser string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *zap.Logger
}

// Launcher starts the configured editor and browser.
type Launcher struct {
	editor  []string
	browser []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	log     *zap.Logger
}

// New parses the editor and browser command lines. Either may be empty;
// using an unconfigured program fails with a missing key error.
func New(opts Options) (*Launcher, error) {
	editor, err := split("editor", opts.Editor)
	if err != nil {
		return nil, err
	}
	browser, err := split("browser", opts.Browser)
	if err != nil {
		return nil, err
	}

	l := &Launcher{
		editor:  editor,
		browser: browser,
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		log:     opts.Logger,
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l, nil
}

func split(key, line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing %s command %q: %w", key, line, err)
	}
	return argv, nil
}

// Editor returns the editor command line, or nil when unconfigured.
func (l *Launcher) Editor() []string { return l.editor }

// Browser returns the browser command line, or nil when unconfigured.
func (l *Launcher) Browser() []string { return l.browser }

// Edit opens the editor on the terminal and waits for it to exit. Files
// are appended to the editor's arguments.
func (l *Launcher) Edit(ctx context.Context, files ...string) error {
	if len(l.editor) == 0 {
		return &twerrors.ConfigKeyMissingError{Key: "editor", Example: "vim"}
	}
	return l.run(ctx, "editor", append(clone(l.editor), files...), true)
}

// OpenTabs opens every URL in a new browser tab.
func (l *Launcher) OpenTabs(ctx context.Context, urls ...string) error {
	if len(l.browser) == 0 {
		return &twerrors.ConfigKeyMissingError{Key: "browser", Example: "firefox"}
	}
	if len(urls) == 0 {
		return nil
	}
	argv := clone(l.browser)
	for _, u := range urls {
		argv = append(argv, NewTabFlag, u)
	}
	return l.run(ctx, "browser", argv, false)
}

func (l *Launcher) run(ctx context.Context, op string, argv []string, interactive bool) error {
	l.log.Debug("running", zap.String("op", op), zap.Strings("argv", argv))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	if interactive {
		cmd.Stdin = l.stdin
	}
	return twerrors.Collaborator(op+" "+argv[0], cmd.Run())
}

func clone(argv []string) []string {
	return append([]string(nil), argv...)
}
