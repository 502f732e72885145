package history

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWeek = "2024-01-02..2024-01-09"

// seedRuns stores n runs named run-0 .. run-(n-1), oldest first.
func seedRuns(t *testing.T, stateDir string, n int) {
	t.Helper()

	hist := &HistoryFile{}
	base := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	for i := range n {
		hist.Entries = append(hist.Entries, HistoryEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Command:   fmt.Sprintf("run-%d", i),
			Week:      testWeek,
			Duration:  "1s",
		})
	}
	require.NoError(t, SaveHistory(stateDir, hist))
}

func TestWriter_Retention(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing   int
		maxEntries int
		wantLen    int
		wantFirst  string
	}{
		"empty history": {
			existing:   0,
			maxEntries: 500,
			wantLen:    1,
			wantFirst:  "push",
		},
		"below the limit": {
			existing:   3,
			maxEntries: 10,
			wantLen:    4,
			wantFirst:  "run-0",
		},
		"at the limit drops the oldest": {
			existing:   4,
			maxEntries: 4,
			wantLen:    4,
			wantFirst:  "run-1",
		},
		"far over the limit": {
			existing:   8,
			maxEntries: 3,
			wantLen:    3,
			wantFirst:  "run-6",
		},
		"zero keeps everything": {
			existing:   8,
			maxEntries: 0,
			wantLen:    9,
			wantFirst:  "run-0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stateDir := t.TempDir()
			seedRuns(t, stateDir, tt.existing)

			NewWriter(stateDir, tt.maxEntries).LogCommand("push", testWeek, 0, time.Second)

			hist, err := LoadHistory(stateDir)
			require.NoError(t, err)
			require.Len(t, hist.Entries, tt.wantLen)
			assert.Equal(t, tt.wantFirst, hist.Entries[0].Command)
			assert.Equal(t, "push", hist.Entries[len(hist.Entries)-1].Command)
		})
	}
}

func TestWriter_LogCommand(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	NewWriter(stateDir, 500).LogCommand("start", testWeek, 2, 90*time.Second+1234*time.Microsecond)

	hist, err := LoadHistory(stateDir)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)

	got := hist.Entries[0]
	assert.Equal(t, "start", got.Command)
	assert.Equal(t, testWeek, got.Week)
	assert.Equal(t, 2, got.ExitCode)
	assert.Equal(t, "1m30.001s", got.Duration)
	assert.False(t, got.Timestamp.IsZero())
}

func TestWriter_SharedAcrossGoroutines(t *testing.T) {
	t.Parallel()

	stateDir := t.TempDir()
	w := NewWriter(stateDir, 0)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.LogCommand(fmt.Sprintf("check-%d", i), testWeek, 0, time.Millisecond)
		}()
	}
	wg.Wait()

	hist, err := LoadHistory(stateDir)
	require.NoError(t, err)
	assert.Len(t, hist.Entries, 8)
}

func TestWriter_FailureIsAWarning(t *testing.T) {
	t.Parallel()

	// A regular file sits where the state directory should be created.
	blocker := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	var warnings bytes.Buffer
	w := NewWriter(filepath.Join(blocker, "nested"), 500)
	w.Warnings = &warnings

	require.NotPanics(t, func() { w.LogCommand("week", testWeek, 0, time.Second) })
	assert.Contains(t, warnings.String(), "Warning: failed to log history")
}
