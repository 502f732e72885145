package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/search"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the GitHub token that would be used",
	Long: `Show the GitHub token used for the search API: $GH_TOKEN, or the token
typed at the prompt. The token is masked unless --reveal is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reveal, _ := cmd.Flags().GetBool("reveal")

		token, err := search.Token(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !reveal {
			token = maskToken(token)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", token)
		return nil
	},
}

func init() {
	tokenCmd.GroupID = GroupConfiguration
	tokenCmd.Flags().Bool("reveal", false, "Print the token in full")
	rootCmd.AddCommand(tokenCmd)
}

// maskToken keeps the first four characters of token.
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
