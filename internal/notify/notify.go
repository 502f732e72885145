// Package notify sends desktop notifications while the editor hides the
// terminal: when a long command such as start finishes, and when the
// draft watched by check --watch becomes clean or dirty.
package notify

import "time"

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure NotificationType = "failure"
)

// Title is the title of every notification.
const Title = "twirer"

// Config holds the notification preferences.
type Config struct {
	// Enabled is the master switch (default: false, opt-in).
	Enabled bool `koanf:"enabled"`
	// LongRunning is how long a command must run before its completion
	// is notified. Zero notifies every command.
	LongRunning time.Duration `koanf:"long_running" validate:"min=0"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		LongRunning: 30 * time.Second,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
}

// NewNotification creates a Notification with the twirer title.
func NewNotification(message string, notificationType NotificationType) Notification {
	return Notification{
		Title:   Title,
		Message: message,
		Type:    notificationType,
	}
}
