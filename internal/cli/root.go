// Package cli implements the command-line interface for the salat CLI.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/msharif/salat-cli-go/internal/core"
)

// Global flags
var (
	configPath   string
	verbose      bool
	quiet        bool
	raw          bool
	timezone     string
	flagLat      float64
	flagLon      float64
	forceRefresh bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "salat",
	Short:   "salat - daily prayer times with an offline month cache",
	Long:    `A command-line tool that computes prayer times for your location, keeps a month of them cached for offline use, and refreshes the cache when it grows stale.`,
	Version: core.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupLogging)

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.salat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "", "Timezone for dates and display (default: device zone)")
	rootCmd.PersistentFlags().Float64Var(&flagLat, "lat", 0, "Latitude override (requires --lon)")
	rootCmd.PersistentFlags().Float64Var(&flagLon, "lon", 0, "Longitude override (requires --lat)")
}

// setupLogging configures the global zerolog logger for terminal output.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	switch {
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
