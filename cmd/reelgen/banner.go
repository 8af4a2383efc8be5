package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/render"
)

var (
	bannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1877F2")).
			Padding(0, 2)
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1877F2"))
	bannerKey   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	bannerWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A00D"))
)

type bannerInfo struct {
	Version   string
	URL       string
	OutputDir string
	FFmpeg    *render.Capabilities
}

func banner(info bannerInfo) string {
	ffmpeg := bannerWarn.Render("not detected")
	if c := info.FFmpeg; c != nil {
		ffmpeg = c.Version
		if !c.Ready() {
			ffmpeg += " " + bannerWarn.Render("(missing "+strings.Join(c.Missing(), ", ")+")")
		}
	}

	rows := []string{
		bannerTitle.Render(fmt.Sprintf("📱 FACEBOOK REEL GENERATOR v%s", info.Version)),
		"",
		bannerKey.Render("Open") + info.URL,
		bannerKey.Render("Output") + logging.SanitizePath(info.OutputDir),
		bannerKey.Render("ffmpeg") + ffmpeg,
	}
	return "\n" + bannerBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)) + "\n"
}
