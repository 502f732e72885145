package notify

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

// sendTimeout bounds a single dispatch so a hung notification daemon
// never delays the command.
const sendTimeout = 5 * time.Second

// Handler decides whether an event deserves a notification and hands it to
// a Sender. The zero value is unconfigured and stays silent.
type Handler struct {
	mu     sync.Mutex
	cfg    Config
	log    *zap.Logger
	sender Sender
	// lintClean is the last lint state seen by LintResult, nil before the
	// first report.
	lintClean *bool

	isCI          func() bool
	isInteractive func() bool
}

// NewHandler returns a handler using the platform sender.
func NewHandler() *Handler {
	return NewHandlerWithSender(NewSender())
}

// NewHandlerWithSender returns a handler dispatching through sender.
func NewHandlerWithSender(sender Sender) *Handler {
	return &Handler{
		sender:        sender,
		isCI:          isCI,
		isInteractive: isInteractive,
	}
}

// Configure applies the loaded notification settings.
func (h *Handler) Configure(cfg Config, log *zap.Logger) {
	if h == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
	h.log = log.Named("notify")
	h.lintClean = nil
}

// OnCommandComplete notifies the end of commands that ran at least the
// configured long_running duration.
func (h *Handler) OnCommandComplete(name string, err error, duration time.Duration) {
	if h == nil {
		return
	}
	h.mu.Lock()
	longRunning := h.cfg.LongRunning
	h.mu.Unlock()
	if duration < longRunning {
		return
	}

	d := duration.Round(100 * time.Millisecond)
	if err != nil {
		h.dispatch(NewNotification(fmt.Sprintf("%s failed after %s", name, d), TypeFailure))
		return
	}
	h.dispatch(NewNotification(fmt.Sprintf("%s finished in %s", name, d), TypeSuccess))
}

// LintResult reports a lint pass over path with count violations. Only a
// change between clean and dirty is notified, so saving an already broken
// draft stays quiet.
func (h *Handler) LintResult(path string, count int) {
	if h == nil {
		return
	}
	clean := count == 0
	h.mu.Lock()
	changed := h.lintClean == nil || *h.lintClean != clean
	h.lintClean = &clean
	h.mu.Unlock()
	if !changed {
		return
	}

	if clean {
		h.dispatch(NewNotification(path+" passes all checks", TypeSuccess))
		return
	}
	h.dispatch(NewNotification(fmt.Sprintf("%s has %d violation(s)", path, count), TypeFailure))
}

func (h *Handler) dispatch(n Notification) {
	h.mu.Lock()
	cfg, log, sender := h.cfg, h.log, h.sender
	h.mu.Unlock()
	if log == nil {
		log = zap.NewNop()
	}

	switch {
	case !cfg.Enabled:
		return
	case h.isCI != nil && h.isCI():
		log.Debug("skipped in CI", zap.String("message", n.Message))
		return
	case h.isInteractive != nil && !h.isInteractive():
		log.Debug("skipped in non-interactive session", zap.String("message", n.Message))
		return
	case sender == nil || !sender.Available():
		log.Debug("no notification tool available")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := sender.Send(ctx, n); err != nil {
		log.Warn("sending notification", zap.Error(err))
	}
}

// isCI reports whether a common CI environment variable is set.
func isCI() bool {
	for _, v := range []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"TF_BUILD", // Azure DevOps
	} {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive reports whether any standard stream is a terminal.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) ||
		term.IsTerminal(int(os.Stdout.Fd())) ||
		term.IsTerminal(int(os.Stderr.Fd()))
}
