package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/week"
)

var prsCmd = &cobra.Command{
	Use:   "prs [window]",
	Short: "Fetch the pull requests merged in the window",
	Long: `Search GitHub for the pull requests of the organization merged during the
stored window (or the given one) and store them as raw entry lines under the
prs record, along with the count sentence under num_prs.`,
	Example: `  twirer prs
  twirer prs 2024-01-02..2024-01-09`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		spec := ""
		if len(args) == 1 {
			spec = args[0]
		}
		return runPRs(cmd.Context(), a, spec)
	},
}

func init() {
	prsCmd.GroupID = GroupRecords
	rootCmd.AddCommand(prsCmd)
}

func runPRs(ctx context.Context, a *app, spec string) error {
	p, err := a.pipeline(true)
	if err != nil {
		return err
	}

	var w week.Window
	if spec != "" {
		w, err = week.Parse(spec)
	} else {
		w, err = p.Window(ctx)
	}
	if err != nil {
		return err
	}
	a.hist.week = w.String()

	total, err := p.Fetch(ctx, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "found %d prs\n", total)
	return nil
}
