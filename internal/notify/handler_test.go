package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu        sync.Mutex
	sent      []Notification
	available bool
	err       error
}

func (f *fakeSender) Send(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.err
}

func (f *fakeSender) Available() bool { return f.available }

func (f *fakeSender) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.sent {
		out = append(out, n.Message)
	}
	return out
}

func newTestHandler(cfg Config, sender Sender) *Handler {
	h := NewHandlerWithSender(sender)
	h.isCI = func() bool { return false }
	h.isInteractive = func() bool { return true }
	h.Configure(cfg, zap.NewNop())
	return h
}

func TestHandler_OnCommandComplete(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := map[string]struct {
		cfg      Config
		err      error
		duration time.Duration
		want     []string
		wantType NotificationType
	}{
		"disabled": {
			cfg:      Config{Enabled: false},
			duration: time.Minute,
		},
		"short command": {
			cfg:      Config{Enabled: true, LongRunning: 30 * time.Second},
			duration: time.Second,
		},
		"long success": {
			cfg:      Config{Enabled: true, LongRunning: 30 * time.Second},
			duration: 45 * time.Second,
			want:     []string{"start finished in 45s"},
			wantType: TypeSuccess,
		},
		"long failure": {
			cfg:      Config{Enabled: true, LongRunning: 30 * time.Second},
			err:      boom,
			duration: time.Minute,
			want:     []string{"start failed after 1m0s"},
			wantType: TypeFailure,
		},
		"zero threshold": {
			cfg:      Config{Enabled: true},
			duration: 0,
			want:     []string{"start finished in 0s"},
			wantType: TypeSuccess,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sender := &fakeSender{available: true}
			h := newTestHandler(tt.cfg, sender)
			h.OnCommandComplete("start", tt.err, tt.duration)

			assert.Equal(t, tt.want, sender.messages())
			if len(tt.want) > 0 {
				assert.Equal(t, Title, sender.sent[0].Title)
				assert.Equal(t, tt.wantType, sender.sent[0].Type)
			}
		})
	}
}

func TestHandler_LintResult(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{available: true}
	h := newTestHandler(Config{Enabled: true}, sender)

	h.LintResult("draft.md", 2)
	h.LintResult("draft.md", 1)
	h.LintResult("draft.md", 0)
	h.LintResult("draft.md", 0)
	h.LintResult("draft.md", 3)

	assert.Equal(t, []string{
		"draft.md has 2 violation(s)",
		"draft.md passes all checks",
		"draft.md has 3 violation(s)",
	}, sender.messages())
}

func TestHandler_Skips(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		ci          bool
		interactive bool
		available   bool
	}{
		"ci":              {ci: true, interactive: true, available: true},
		"non-interactive": {interactive: false, available: true},
		"no tool":         {interactive: true, available: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sender := &fakeSender{available: tt.available}
			h := newTestHandler(Config{Enabled: true}, sender)
			h.isCI = func() bool { return tt.ci }
			h.isInteractive = func() bool { return tt.interactive }

			h.OnCommandComplete("check", nil, time.Second)
			assert.Empty(t, sender.messages())
		})
	}
}

func TestHandler_SendErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{available: true, err: errors.New("no daemon")}
	h := newTestHandler(Config{Enabled: true}, sender)

	require.NotPanics(t, func() { h.OnCommandComplete("push", nil, time.Second) })
	assert.Len(t, sender.messages(), 1)
}

func TestHandler_NilAndUnconfigured(t *testing.T) {
	t.Parallel()

	var nilHandler *Handler
	require.NotPanics(t, func() {
		nilHandler.Configure(DefaultConfig(), nil)
		nilHandler.OnCommandComplete("week", nil, time.Hour)
		nilHandler.LintResult("draft.md", 1)
	})

	sender := &fakeSender{available: true}
	h := NewHandlerWithSender(sender)
	h.OnCommandComplete("week", nil, time.Hour)
	assert.Empty(t, sender.messages(), "unconfigured handler is disabled")
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Second, cfg.LongRunning)
}

func TestSenderArgs(t *testing.T) {
	t.Parallel()

	n := NewNotification(`draft "530" ready`, TypeFailure)
	assert.Equal(t,
		[]string{"--app-name", Title, "--urgency", "critical", Title, `draft "530" ready`},
		notifySendArgs(n))
	assert.Equal(t,
		[]string{"-e", `display notification "draft \"530\" ready" with title "twirer"`},
		osascriptArgs(n))
}
