package history

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Writer records finished commands, keeping at most MaxEntries of them.
type Writer struct {
	StateDir string
	// MaxEntries bounds the history; the oldest runs go first. Zero keeps
	// everything.
	MaxEntries int
	// Warnings receives write failures (default: os.Stderr).
	Warnings io.Writer

	mu sync.Mutex
}

// NewWriter returns a writer for the history file in stateDir.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{StateDir: stateDir, MaxEntries: maxEntries}
}

// LogEntry appends entry. A failure is printed as a warning: losing a
// history line must never fail the command that produced it.
func (w *Writer) LogEntry(entry HistoryEntry) {
	if err := w.append(entry); err != nil {
		out := w.Warnings
		if out == nil {
			out = os.Stderr
		}
		fmt.Fprintf(out, "Warning: failed to log history: %v\n", err)
	}
}

func (w *Writer) append(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hist, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	hist.Entries = append(hist.Entries, entry)
	if over := len(hist.Entries) - w.MaxEntries; w.MaxEntries > 0 && over > 0 {
		hist.Entries = hist.Entries[over:]
	}

	if err := SaveHistory(w.StateDir, hist); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// LogCommand records one run of command against the given week window.
func (w *Writer) LogCommand(command, week string, exitCode int, duration time.Duration) {
	w.LogEntry(HistoryEntry{
		Timestamp: time.Now(),
		Command:   command,
		Week:      week,
		ExitCode:  exitCode,
		Duration:  duration.Round(time.Millisecond).String(),
	})
}
