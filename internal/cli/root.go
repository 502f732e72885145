// Package cli implements the twirer command tree.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/git"
	"github.com/twirer/twirer/internal/lifecycle"
	"github.com/twirer/twirer/internal/logging"
)

// Command groups shown in the help output.
const (
	GroupWeekly        = "weekly"
	GroupRecords       = "records"
	GroupConfiguration = "configuration"
)

var (
	logger = zap.NewNop()

	instrumentOnce sync.Once
)

var rootCmd = &cobra.Command{
	Use:   "twirer",
	Short: "Assemble and check the Rust project updates of This Week in Rust",
	Long: `twirer collects the pull requests merged across an organization during
one week, filters and formats their titles, splices them into the newsletter
draft and checks the result before it is pushed for review.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (TWIRER_*)
  2. Project config (--config, default cache/config)
  3. User config (~/.config/twirer/config.yml)
  4. Built-in defaults`,
	Example: `  # Fill in this week's draft and open it in the editor
  twirer start

  # Check the draft while editing it
  twirer check --watch

  # Submit the draft and move on to next week
  twirer push`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		logger = logging.New(debug, cmd.ErrOrStderr())
		if debug {
			git.SetDebugLogger(logging.GitDebugFunc(logger))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Project config file (default: cache/config)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupWeekly, Title: "Weekly Workflow:"},
		&cobra.Group{ID: GroupRecords, Title: "Records and Repository:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)
}

// Execute runs the command line and prints a categorized error on failure.
func Execute() error {
	instrumentOnce.Do(func() { instrument(rootCmd) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		twerrors.FprintError(os.Stderr, twerrors.Classify(err))
	}
	return err
}

// instrument wraps every runnable command so its outcome is recorded in
// the command history, with a notification when it ran long.
func instrument(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		name := strings.TrimPrefix(cmd.CommandPath(), rootCmd.Name()+" ")
		cmd.RunE = func(c *cobra.Command, args []string) error {
			return lifecycle.Run(lifecycle.Multi(recorder, notifier), name, func() error { return run(c, args) })
		}
	}
	for _, sub := range cmd.Commands() {
		instrument(sub)
	}
}
