package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/twirer/twirer/internal/config"
	"github.com/twirer/twirer/internal/draft"
	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/git"
	"github.com/twirer/twirer/internal/launcher"
	"github.com/twirer/twirer/internal/output"
)

// setupNotDone is printed when the editors have not prepared the draft yet.
const setupNotDone = "error: setup not done yet. Try again later."

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Fill in the draft and open it in the editor",
	Long: `Start this week's edit cycle:

  1. check out the base branch of the newsletter checkout and pull it
  2. open the crate and quote of the week threads in the browser while
     fetching the merged pull requests
  3. filter them and splice the updates and the crate/quote templates
     into the draft placeholders
  4. open the draft in the editor

When the draft does not have its placeholders yet, start reports that the
setup is not done and stops without error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		base, _ := cmd.Flags().GetString("base")
		return runStart(cmd.Context(), a, base)
	},
}

func init() {
	startCmd.GroupID = GroupWeekly
	startCmd.Flags().String("base", "master", "Branch to check out and pull before starting")
	rootCmd.AddCommand(startCmd)
}

func runStart(ctx context.Context, a *app, base string) error {
	if err := a.cfg.Require(config.KeyBrowser, config.KeyEditor,
		config.KeyIgnore, config.KeyOrder, config.KeyCodeKeywords); err != nil {
		return err
	}
	editor, err := a.launcher()
	if err != nil {
		return err
	}
	// The browser and the fetch progress write to the streams at the same
	// time. The editor keeps the unwrapped terminal.
	a.out, a.errOut = output.Synchronized(a.out, a.errOut)
	browser, err := a.launcher()
	if err != nil {
		return err
	}

	const steps = 4
	output.PrintStepHeader(a.out, 1, steps, "updating "+base)
	repo, err := git.Open(a.cfg.TwirDir)
	if err != nil {
		return err
	}
	if err := repo.Checkout(base); err != nil {
		return err
	}
	if err := repo.Pull(ctx, a.cfg.Remote); err != nil {
		return err
	}

	path, contents, err := a.findDraft()
	if err != nil {
		return err
	}
	if !draft.Ready(contents) {
		fmt.Fprintln(a.out, setupNotDone)
		return nil
	}

	p, err := a.pipeline(true)
	if err != nil {
		return err
	}
	w, err := p.Window(ctx)
	if err != nil {
		return err
	}
	a.hist.week = w.String()

	output.PrintStepHeader(a.out, 2, steps, "fetching pull requests")
	var total int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return browser.OpenTabs(gctx, launcher.CrateThreadURL, launcher.QuoteThreadURL)
	})
	g.Go(func() error {
		var err error
		total, err = p.Fetch(gctx, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "found %d prs\n", total)

	output.PrintStepHeader(a.out, 3, steps, "filling in the draft")
	lines, err := p.Filter(ctx, a.rules())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "filtered prs")

	contents = draft.Splice(contents, p.Updates(total, w, lines))
	if err := draft.Write(path, contents); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "updated contents, opening editor")

	output.PrintStepHeader(a.out, 4, steps, "editing")
	return editor.Edit(ctx, path)
}

// findDraft locates and reads the draft of the newsletter checkout.
func (a *app) findDraft() (path, contents string, err error) {
	path, err = draft.Find(a.cfg.TwirDir)
	if errors.Is(err, draft.ErrNotFound) {
		return "", "", twerrors.DraftNotFound(draft.Dir(a.cfg.TwirDir))
	}
	if err != nil {
		return "", "", err
	}
	contents, err = draft.Read(path)
	if err != nil {
		return "", "", err
	}
	return path, contents, nil
}
