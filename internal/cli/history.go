package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View command execution history",
	Long: `View a log of the twirer commands run so far with timestamp, command name,
week window, exit code, and duration. The log lives in state_dir.`,
	Example: `  twirer history
  twirer history --week 2024-01-02..2024-01-09
  twirer history -n 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		clearFlag, _ := cmd.Flags().GetBool("clear")
		weekFilter, _ := cmd.Flags().GetString("week")
		limit, _ := cmd.Flags().GetInt("limit")
		return runHistory(a.out, a.cfg.StateDir, weekFilter, limit, clearFlag)
	},
}

func init() {
	historyCmd.GroupID = GroupRecords
	historyCmd.Flags().String("week", "", "Filter by week window")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().BoolP("clear", "c", false, "Clear all history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(out io.Writer, stateDir, weekFilter string, limit int, clearFlag bool) error {
	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := history.Filter(histFile.Entries, weekFilter, limit)
	if len(entries) == 0 {
		if weekFilter != "" {
			fmt.Fprintf(out, "No matching entries for week '%s'.\n", weekFilter)
		} else {
			fmt.Fprintln(out, "No history available.")
		}
		return nil
	}

	displayEntries(out, entries)
	return nil
}

func displayEntries(out io.Writer, entries []history.HistoryEntry) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		exitCode := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCode = green(exitCode)
		} else {
			exitCode = red(exitCode)
		}

		w := entry.Week
		if w == "" {
			w = "-"
		}

		fmt.Fprintf(out, "%s  %-8s  %-22s  exit=%s  %s\n",
			cyan(entry.Timestamp.Format("2006-01-02 15:04:05")),
			entry.Command,
			w,
			exitCode,
			entry.Duration,
		)
	}
}
