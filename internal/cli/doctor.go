package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"doc"},
	Short:   "Check that everything a weekly run needs is in place",
	Long: `Check the newsletter checkout, its draft, the GitHub token, the editor and
browser programs and the stored week window.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return runDoctor(cmd.Context(), a)
	},
}

func init() {
	doctorCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(ctx context.Context, a *app) error {
	in := health.Inputs{TwirDir: a.cfg.TwirDir}
	if l, err := a.launcher(); err == nil {
		in.Editor = l.Editor()
		in.Browser = l.Browser()
	}
	if st, err := a.store(); err == nil {
		in.Store = st
	}

	report := health.RunHealthChecks(ctx, in)
	fmt.Fprint(a.out, health.FormatReport(report))
	if !report.Passed {
		return twerrors.NewPrerequisiteError("some checks failed",
			"Fix the items marked ✗ above, then run 'twirer doctor' again")
	}
	return nil
}
