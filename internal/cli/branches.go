package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/git"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List the branches of the newsletter checkout",
	Long: `List the local branches of the newsletter checkout on one line, followed
by the checked out branch. With --all, remote-tracking branches are listed
too, prefixed with their remote.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		all, _ := cmd.Flags().GetBool("all")
		return runBranches(a, all)
	},
}

func init() {
	branchesCmd.GroupID = GroupRecords
	branchesCmd.Flags().BoolP("all", "a", false, "Include remote-tracking branches")
	rootCmd.AddCommand(branchesCmd)
}

func runBranches(a *app, all bool) error {
	repo, err := git.Open(a.cfg.TwirDir)
	if err != nil {
		return err
	}

	var names []string
	if all {
		infos, err := repo.AllBranches()
		if err != nil {
			return err
		}
		for _, b := range infos {
			if b.IsRemote {
				names = append(names, b.Remote+"/"+b.Name)
			} else {
				names = append(names, b.Name)
			}
		}
	} else if names, err = repo.LocalBranches(); err != nil {
		return err
	}

	current, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n* %s\n", strings.Join(names, ", "), current)
	return nil
}
