// Package progress shows a spinner while the digest pipeline pages through
// GitHub, falling back to plain lines when stdout is not a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Terminal says how steps are drawn: Spinner on an interactive stdout,
// ASCII markers when Unicode is unwanted.
type Terminal struct {
	Spinner bool
	ASCII   bool
}

// Detect inspects stdout and TWIRER_ASCII=1.
func Detect() Terminal {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	return Terminal{
		Spinner: tty,
		ASCII:   !tty || os.Getenv("TWIRER_ASCII") == "1",
	}
}

// markers returns the done and failed markers and the spinner charset.
func (t Terminal) markers() (done, failed string, charset []string) {
	if t.ASCII {
		return "[OK]", "[FAIL]", spinner.CharSets[9] // | / - \
	}
	return "✓", "✗", spinner.CharSets[14] // braille dots
}

// Display reports the steps of a fetch. A nil *Display is valid and
// prints nothing.
type Display struct {
	out          io.Writer
	term         Terminal
	done, failed string
	charset      []string
	spin         *spinner.Spinner
}

// NewDisplay creates a Display writing to out.
func NewDisplay(out io.Writer, t Terminal) *Display {
	d := &Display{out: out, term: t}
	d.done, d.failed, d.charset = t.markers()
	return d
}

// Start begins a step. On a terminal a spinner runs until the step ends.
func (d *Display) Start(step string) {
	if d == nil {
		return
	}
	if !d.term.Spinner {
		fmt.Fprintf(d.out, "%s...\n", step)
		return
	}
	d.spin = spinner.New(d.charset, 100*time.Millisecond, spinner.WithWriter(d.out))
	d.spin.Suffix = " " + step
	d.spin.Start()
}

// Done ends the current step successfully.
func (d *Display) Done(msg string) {
	if d == nil {
		return
	}
	d.stop()
	fmt.Fprintf(d.out, "%s %s\n", d.done, msg)
}

// Fail ends the current step with err.
func (d *Display) Fail(msg string, err error) {
	if d == nil {
		return
	}
	d.stop()
	fmt.Fprintf(d.out, "%s %s: %v\n", d.failed, msg, err)
}

func (d *Display) stop() {
	if d.spin != nil {
		d.spin.Stop()
		d.spin = nil
	}
}
