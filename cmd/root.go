package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Vrilya/wow-addon-updater/internal/config"
	"github.com/Vrilya/wow-addon-updater/internal/logger"
	"github.com/Vrilya/wow-addon-updater/internal/updater"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "wow-addon-updater",
	Short:   "World of Warcraft addon updater",
	Version: version + " (" + commit + ")",
	Long: `A CLI tool to keep World of Warcraft addons up to date across one or
more game installations.

Quick start:
  wow-addon-updater installations add "Classic" ~/wow/Interface/AddOns --game-version "Classic Era"
  wow-addon-updater detect --install    Detect existing addons and start tracking them
  wow-addon-updater scan                Check every tracked addon for updates
  wow-addon-updater addons update --all Install everything that is stale`,
}

func Execute() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := logger.Init(verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
		}
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
}

func getLogger() *log.Logger {
	if logger.Log != nil {
		return logger.Log
	}
	return log.Default()
}

var sharedUpdater *updater.Updater

// getUpdater returns the shared updater, loading the config store on first use.
func getUpdater() *updater.Updater {
	if sharedUpdater != nil {
		return sharedUpdater
	}

	store := config.NewStore(config.DefaultPath(), getLogger())
	store.Load()
	sharedUpdater = updater.New(store, getLogger())
	return sharedUpdater
}
