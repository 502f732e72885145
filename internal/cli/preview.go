package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/twirer/twirer/internal/draft"
	"github.com/twirer/twirer/internal/lint"
	"github.com/twirer/twirer/internal/output"
)

var previewCmd = &cobra.Command{
	Use:   "preview [draft.md]",
	Short: "Render the edited chapters of the draft in the terminal",
	Long: `Render the crate of the week, quote of the week and updates chapters of the
draft as styled markdown. With --all the whole draft is rendered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		all, _ := cmd.Flags().GetBool("all")
		style, _ := cmd.Flags().GetString("style")
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return runPreview(a, path, all, style)
	},
}

func init() {
	previewCmd.GroupID = GroupWeekly
	previewCmd.Flags().Bool("all", false, "Render the whole draft")
	previewCmd.Flags().String("style", "auto", "Glamour style: auto, dark, light, notty")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(a *app, path string, all bool, style string) error {
	var (
		contents string
		err      error
	)
	if path == "" {
		path, contents, err = a.findDraft()
	} else {
		contents, err = draft.Read(path)
	}
	if err != nil {
		return err
	}

	if !all {
		contents = editedChapters(contents)
	}

	r, err := newRenderer(style, output.GetTerminalWidth())
	if err != nil {
		return err
	}
	rendered, err := r.Render(contents)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	output.PrintSeparator(a.out, path)
	fmt.Fprint(a.out, rendered)
	return nil
}

func newRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return r, nil
}

// editedChapters keeps the chapters twirer fills in, as level-2 sections.
func editedChapters(doc string) string {
	var b strings.Builder
	for _, ch := range lint.Chapters(doc) {
		switch ch.Title {
		case draft.ChapterCrate, draft.ChapterQuote, draft.ChapterUpdates:
			fmt.Fprintf(&b, "## %s\n%s\n", ch.Title, ch.Body)
		}
	}
	return b.String()
}
