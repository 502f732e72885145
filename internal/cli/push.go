package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/config"
	"github.com/twirer/twirer/internal/draft"
	twerrors "github.com/twirer/twirer/internal/errors"
	"github.com/twirer/twirer/internal/git"
	"github.com/twirer/twirer/internal/output"
)

// CommitMessage is the message of the submission commit.
const CommitMessage = "C/QotW and notable changes"

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Submit the edited draft and move on to the next week",
	Long: `Submit this week's edits:

  1. create the twir-N branch, commit the draft and push it to the fork
  2. open the pull request page in the browser
  3. advance the stored week window
  4. make this week's pull requests the previous run's
  5. delete the previous issue's branch locally and on the fork

The fork key names the GitHub user owning the fork; it is also the name of
the git remote pointing at it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return runPush(cmd.Context(), a)
	},
}

func init() {
	pushCmd.GroupID = GroupWeekly
	rootCmd.AddCommand(pushCmd)
}

// PullRequestURL is the page opening a pull request from branch of fork.
func PullRequestURL(fork, branch string) string {
	return fmt.Sprintf("https://github.com/%s/this-week-in-rust/pull/new/%s", fork, branch)
}

func runPush(ctx context.Context, a *app) error {
	if err := a.cfg.Require(config.KeyBrowser); err != nil {
		return err
	}
	fork := a.cfg.Fork
	if fork == "" {
		return &twerrors.ConfigKeyMissingError{Key: "fork", Example: "llogiq"}
	}
	l, err := a.launcher()
	if err != nil {
		return err
	}

	path, contents, err := a.findDraft()
	if err != nil {
		return err
	}
	number, err := draft.Number(contents)
	if err != nil {
		return twerrors.DraftNumberNotFound(path)
	}
	branch := draft.Branch(number)

	repo, err := git.Open(a.cfg.TwirDir)
	if err != nil {
		return err
	}

	const steps = 5
	output.PrintStepHeader(a.out, 1, steps, "submitting "+branch)
	file := "draft/" + filepath.Base(path)
	output.PrintExecutingCommand(a.out, "git checkout -b "+branch)
	if err := repo.CreateBranch(branch); err != nil {
		return err
	}
	output.PrintExecutingCommand(a.out, "git add "+file)
	if err := repo.Add(file); err != nil {
		return err
	}
	output.PrintExecutingCommand(a.out, fmt.Sprintf("git commit -m %q", CommitMessage))
	if _, err := repo.Commit(CommitMessage); err != nil {
		return err
	}
	output.PrintExecutingCommand(a.out, "git push "+fork+" "+branch)
	if err := repo.Push(ctx, fork, branch); err != nil {
		return err
	}

	output.PrintStepHeader(a.out, 2, steps, "opening pull request page")
	if err := l.OpenTabs(ctx, PullRequestURL(fork, branch)); err != nil {
		return err
	}

	output.PrintStepHeader(a.out, 3, steps, "advancing week")
	p, err := a.pipeline(false)
	if err != nil {
		return err
	}
	w, err := p.AdvanceWeek(ctx)
	if err != nil {
		return err
	}
	a.hist.week = w.String()
	fmt.Fprintf(a.out, "set week to %s\n", w)

	output.PrintStepHeader(a.out, 4, steps, "rotating pull requests")
	if err := p.Rotate(ctx); err != nil {
		return err
	}

	output.PrintStepHeader(a.out, 5, steps, "cleaning up")
	previous, ok := draft.PreviousBranch(number)
	if ok {
		ok, err = hasBranch(repo, previous)
		if err != nil {
			return err
		}
	}
	if !ok {
		output.PrintSuccess(a.out, "submitted "+branch)
		return nil
	}
	output.PrintExecutingCommand(a.out, "git branch -d "+previous)
	if err := repo.DeleteBranch(previous); err != nil {
		return err
	}
	output.PrintExecutingCommand(a.out, "git push --delete "+fork+" "+previous)
	if err := repo.DeleteRemoteBranch(ctx, fork, previous); err != nil {
		return err
	}
	output.PrintSuccess(a.out, "submitted "+branch)
	return nil
}

func hasBranch(repo *git.Repo, name string) (bool, error) {
	names, err := repo.LocalBranches()
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}
