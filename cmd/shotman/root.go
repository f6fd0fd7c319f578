package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "shotman",
	Short: "Shot discovery and navigation for the comp department",
	Long: `shotman - shot discovery and navigation for the comp department

Finds every shot with rendered frames under the render root, caches the
list for a day, and derives the comp, precomp, camera and render paths
around each shot.

Run 'shotman watch' to keep the list fresh and serve the local API.`,
	SilenceUsage: true,
}

// Execute runs the root command. Interrupts cancel the command's context,
// which stops a running scan; its partial result is still applied.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("shotman {{.Version}}\n")
}
