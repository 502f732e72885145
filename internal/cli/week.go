package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/store"
	"github.com/twirer/twirer/internal/week"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Advance the merge window by one week",
	Long: `Advance the stored merge window (week_spec) by one week and print the
GitHub search page listing its merged pull requests.

Use --set to store a window explicitly, e.g. when starting out, and --show
to print the current window without changing it.`,
	Example: `  # Move to the next week
  twirer week

  # Start tracking from a given window
  twirer week --set 2024-01-02..2024-01-09`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		set, _ := cmd.Flags().GetString("set")
		show, _ := cmd.Flags().GetBool("show")
		return runWeek(cmd.Context(), a, set, show)
	},
}

func init() {
	weekCmd.GroupID = GroupRecords
	weekCmd.Flags().String("set", "", "Store this window (YYYY-MM-DD..YYYY-MM-DD)")
	weekCmd.Flags().Bool("show", false, "Print the current window without advancing it")
	weekCmd.MarkFlagsMutuallyExclusive("set", "show")
	rootCmd.AddCommand(weekCmd)
}

func runWeek(ctx context.Context, a *app, set string, show bool) error {
	p, err := a.pipeline(false)
	if err != nil {
		return err
	}

	var w week.Window
	switch {
	case set != "":
		if w, err = week.Parse(set); err != nil {
			return err
		}
		st, err := a.store()
		if err != nil {
			return err
		}
		if err := store.SaveText(ctx, st, store.WeekSpec, w.String()); err != nil {
			return fmt.Errorf("saving week window: %w", err)
		}
	case show:
		if w, err = p.Window(ctx); err != nil {
			return err
		}
	default:
		if w, err = p.AdvanceWeek(ctx); err != nil {
			return err
		}
	}

	a.hist.week = w.String()
	fmt.Fprintln(a.out, w.SearchURL(a.cfg.Org))
	return nil
}
