package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/config"
)

var editorCmd = &cobra.Command{
	Use:   "editor [file...]",
	Short: "Run the configured editor",
	Long: `Run the editor configured under the editor key, with the given files if
any. Useful to check the editor command line before running start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return runEditor(cmd.Context(), a, args)
	},
}

var browserCmd = &cobra.Command{
	Use:   "browser [url...]",
	Short: "Show the configured browser, or open URLs with it",
	Long: `Print the browser command line configured under the browser key (or the
older firefox key). Given URLs, open each of them in a new tab instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return runBrowser(cmd.Context(), a, args)
	},
}

func init() {
	editorCmd.GroupID = GroupConfiguration
	browserCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(editorCmd)
	rootCmd.AddCommand(browserCmd)
}

func runEditor(ctx context.Context, a *app, files []string) error {
	if err := a.cfg.Require(config.KeyEditor); err != nil {
		return err
	}
	l, err := a.launcher()
	if err != nil {
		return err
	}
	return l.Edit(ctx, files...)
}

func runBrowser(ctx context.Context, a *app, urls []string) error {
	if err := a.cfg.Require(config.KeyBrowser); err != nil {
		return err
	}
	l, err := a.launcher()
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintf(a.out, "%q\n", strings.Join(l.Browser(), " "))
		return nil
	}
	return l.OpenTabs(ctx, urls...)
}
