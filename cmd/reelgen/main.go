package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruziwatakundanashe/reelgen/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "reelgen",
	Short: "Facebook Reel Generator",
	Long: `reelgen turns images and text into 1080x1920 vertical reels.

Templates:
  slideshow   one clip per image with fades and a slow zoom
  quote       a quote over a background image or black
  animation   one fading clip per line of text

Run without a subcommand to start the web UI.`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the REELGEN_* configuration variables",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging for CLI commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(tipsCmd)
	rootCmd.AddCommand(envCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
