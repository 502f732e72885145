package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/config"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter, format and sort the fetched pull requests",
	Long: `Drop the pull requests already announced last time and those matching an
ignore keyword, format their titles, sort them by repository priority, then
store the result under the filteredprs record and print it.

Needs the ignore, order and code_keywords config keys.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return runFilter(cmd.Context(), a)
	},
}

func init() {
	filterCmd.GroupID = GroupRecords
	rootCmd.AddCommand(filterCmd)
}

func runFilter(ctx context.Context, a *app) error {
	if err := a.cfg.Require(config.KeyIgnore, config.KeyOrder, config.KeyCodeKeywords); err != nil {
		return err
	}
	a.noteWeek(ctx)

	p, err := a.pipeline(false)
	if err != nil {
		return err
	}
	lines, err := p.Filter(ctx, a.rules())
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(a.out, line)
	}
	return nil
}
