// Package lifecycle wraps command execution with timing and completion
// reporting, so every command is recorded the same way.
package lifecycle

import "time"

// CommandHandler is told about every finished command. It is satisfied by
// the history recorder of the cli package.
//
// Implementations may be nil; Run checks before calling.
type CommandHandler interface {
	// OnCommandComplete is called when a CLI command finishes execution.
	//   - name: the command path (e.g., "start", "config show")
	//   - err: the command's error, nil on success
	//   - duration: how long the command took to execute
	OnCommandComplete(name string, err error, duration time.Duration)
}

// Run executes fn, then reports its outcome and duration to handler.
func Run(handler CommandHandler, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if handler != nil {
		handler.OnCommandComplete(name, err, time.Since(start))
	}
	return err
}

// multi fans a completion out to several handlers.
type multi []CommandHandler

// Multi combines handlers into one. Nil handlers are skipped.
func Multi(handlers ...CommandHandler) CommandHandler {
	var m multi
	for _, h := range handlers {
		if h != nil {
			m = append(m, h)
		}
	}
	return m
}

func (m multi) OnCommandComplete(name string, err error, duration time.Duration) {
	for _, h := range m {
		h.OnCommandComplete(name, err, duration)
	}
}
