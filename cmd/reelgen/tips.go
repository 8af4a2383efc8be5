package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show tips for great reels",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderTips(80)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderTips(width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render("## " + reel.TipsTitle + "\n\n" + reel.Tips)
}
