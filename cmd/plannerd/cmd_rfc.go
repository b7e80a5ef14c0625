package main

import (
	"fmt"
	"strings"

	"plannerd/internal/planner"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	rfcRulesID string
	rfcRender  bool
)

var rfcCmd = &cobra.Command{
	Use:   "rfc [feature description]",
	Short: "Generate an RFC for a feature",
	Long: `Drafts an RFC document for the described feature using the rules
document selected with --rules-id.

Example:
  plannerd rfc add dark mode to the settings page --rules-id web --render`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRFC,
}

func init() {
	rfcCmd.Flags().StringVar(&rfcRulesID, "rules-id", planner.DefaultRulesID, "Rules document to apply")
	rfcCmd.Flags().BoolVar(&rfcRender, "render", false, "Render the Markdown for the terminal")
}

func runRFC(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	svc, _, err := buildService(ctx)
	if err != nil {
		return err
	}

	feature := strings.Join(args, " ")
	text, err := svc.CreateRFC(ctx, feature, rfcRulesID)
	if err != nil {
		return err
	}

	if rfcRender {
		if rendered, rerr := renderMarkdown(text); rerr == nil {
			text = rendered
		} else {
			logger.Warn("markdown rendering failed, printing raw text")
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}
