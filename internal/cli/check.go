package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/draft"
	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/lint"
	"github.com/twirer/twirer/internal/output"
	"github.com/twirer/twirer/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [draft.md]",
	Short: "Lint the draft",
	Long: `Check the crate of the week, quote of the week and updates chapters of the
draft: whitespace, the updates header and link, and the shape, title and
link of every entry. Every violation of the first failing chapter is
printed and the command exits with status 2.

Without an argument the draft of the newsletter checkout is checked. With
--watch the draft is checked again every time it is saved, until
interrupted.`,
	Example: `  twirer check
  twirer check --watch
  twirer check ../this-week-in-rust/draft/2024-01-10-this-week-in-rust.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		watching, _ := cmd.Flags().GetBool("watch")
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runCheck(cmd.Context(), a, path, watching)
	},
}

func init() {
	checkCmd.GroupID = GroupWeekly
	checkCmd.Flags().BoolP("watch", "w", false, "Check again whenever the draft is saved")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context, a *app, path string, watching bool) error {
	if path == "" {
		found, _, err := a.findDraft()
		if err != nil {
			if watching {
				return twerrors.InvalidWatchTarget()
			}
			return err
		}
		path = found
	}

	if !watching {
		_, err := checkFile(a, path)
		return err
	}

	w, err := watch.New(path, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	recheck := func() {
		output.PrintSeparator(a.out, time.Now().Format("15:04:05"))
		report, err := checkFile(a, path)
		if report != nil {
			a.notify.LintResult(filepath.Base(path), report.Count())
		}
		if err != nil && twerrors.KindOf(err) != twerrors.KindLintViolation {
			fmt.Fprintf(a.errOut, "error: %v\n", err)
		}
	}
	recheck()
	fmt.Fprintf(a.out, "watching %s (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx, recheck)
}

// checkFile lints the file at path, printing every violation and a
// summary. The report is nil when the file could not be read.
func checkFile(a *app, path string) (*lint.Report, error) {
	contents, err := draft.Read(path)
	if err != nil {
		return nil, err
	}

	l := lint.New(lint.Options{
		Org:         a.cfg.Org,
		OnViolation: output.ViolationPrinter(a.out),
	})
	report, err := l.Check(contents)
	output.PrintLintSummary(a.out, report)
	return report, err
}
