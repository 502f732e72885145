package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// Sender delivers a notification to the desktop.
type Sender interface {
	Send(ctx context.Context, n Notification) error
	// Available reports whether the platform tool is installed.
	Available() bool
}

// NewSender returns the sender for the current OS: notify-send on linux,
// osascript on macOS, and a no-op sender elsewhere.
func NewSender() Sender {
	switch runtime.GOOS {
	case "darwin":
		return &commandSender{tool: "osascript", args: osascriptArgs}
	case "linux":
		return &commandSender{tool: "notify-send", args: notifySendArgs}
	default:
		return noopSender{}
	}
}

// commandSender runs a notification tool.
type commandSender struct {
	tool string
	args func(Notification) []string
}

func (s *commandSender) Send(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, s.tool, s.args(n)...)
	return twerrors.Collaborator(s.tool, cmd.Run())
}

func (s *commandSender) Available() bool {
	_, err := exec.LookPath(s.tool)
	return err == nil
}

func notifySendArgs(n Notification) []string {
	args := []string{"--app-name", n.Title}
	if n.Type == TypeFailure {
		args = append(args, "--urgency", "critical")
	}
	return append(args, n.Title, n.Message)
}

func osascriptArgs(n Notification) []string {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(n.Message), strconv.Quote(n.Title))
	return []string{"-e", script}
}

// noopSender is used on platforms without a supported tool.
type noopSender struct{}

func (noopSender) Send(context.Context, Notification) error { return nil }
func (noopSender) Available() bool                          { return false }
