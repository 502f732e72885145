package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette paints the parts of a printed error; the zero value is plain.
type palette struct {
	label, message, category, fix, usage, bullet func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	usage:    color.New(color.FgCyan, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

func (p palette) paint(f func(a ...interface{}) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// FormatError renders err for the terminal, colored unless color output
// is disabled.
func FormatError(err *CLIError) string {
	if color.NoColor {
		return FormatErrorPlain(err)
	}
	return format(err, colored)
}

// FormatErrorPlain renders err without escape codes.
func FormatErrorPlain(err *CLIError) string {
	return format(err, palette{})
}

func format(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		p.paint(p.label, "Error"), p.paint(p.category, err.Category.String()), p.paint(p.message, err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.paint(p.usage, "Usage: "), err.Usage)
	}
	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.paint(p.fix, "To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.paint(p.bullet, "•"), step)
		}
	}
	return sb.String()
}

// FprintError writes the rendered err to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
