// Package output provides terminal output formatting utilities for the
// twirer CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/twirer/twirer/internal/lint"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim line with label centered in it.
func PrintSeparator(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintStepHeader prints a numbered step (e.g., "[2/5] Pulling origin...").
func PrintStepHeader(out io.Writer, step, total int, name string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("[%d/%d]", step, total)), white(name+"..."))
}

// PrintSuccess prints a green check followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintExecutingCommand prints the command being executed.
func PrintExecutingCommand(out io.Writer, command string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→ Running:"), dim(command))
}

// ViolationPrinter returns a callback printing each lint violation as
// "[kind] chapter: message", colored by kind.
func ViolationPrinter(out io.Writer) func(lint.Violation) {
	dim := color.New(color.Faint).SprintFunc()
	return func(v lint.Violation) {
		label := kindColor(v.Kind).Sprintf("[%s]", v.Kind)
		fmt.Fprintf(out, "%s %s %s\n", label, dim(v.Chapter+":"), v.Message)
	}
}

func kindColor(k lint.ViolationKind) *color.Color {
	switch k {
	case lint.Whitespace:
		return color.New(color.FgYellow)
	case lint.Section, lint.EntryShape:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgRed)
	}
}

// PrintLintSummary prints the outcome of a lint run.
func PrintLintSummary(out io.Writer, report *lint.Report) {
	if n := report.Count(); n > 0 {
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		fmt.Fprintf(out, "%s %d violation(s) in %d chapter(s)\n", red("✗"), n, len(report.Chapters))
		return
	}
	PrintSuccess(out, fmt.Sprintf("draft passes all checks (%d chapters checked)", len(report.Chapters)))
}
