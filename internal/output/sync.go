package output

import (
	"io"
	"sync"
)

// lockedWriter serializes writes to w under a lock shared with its
// siblings.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Synchronized wraps out and errOut behind one lock, so goroutines and
// child processes can share the command's streams while work runs
// concurrently.
func Synchronized(out, errOut io.Writer) (io.Writer, io.Writer) {
	mu := &sync.Mutex{}
	return &lockedWriter{mu: mu, w: out}, &lockedWriter{mu: mu, w: errOut}
}
