// Package cli provides the command-line interface for ember.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/settings"
	"github.com/emberlauncher/ember/internal/version"
)

var (
	// Global flags
	settingsFile string
	verbose      bool

	// Global logger
	logger *logging.Logger
)

// GetLogger returns the CLI logger, initializing it if needed.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// NewRootCmd creates the root command for CLI mode.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ember",
		Short: "Ember Launcher - settings and meta server tools",
		Long: `Ember Launcher ` + version.Version + ` - Built: ` + version.BuildTime + `

CLI Mode (default):
  Manage launcher settings, download meta server properties,
  and upload log excerpts to a paste service.

GUI Mode (--gui flag):
  Graphical settings page.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "Settings file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newPasteCmd())

	return rootCmd
}

// openStore loads the settings store from the --settings flag or the
// default location.
func openStore() (*settings.Store, error) {
	path := settingsFile
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine settings path: %w", err)
		}
	}

	store := settings.NewStore(path, nil)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}
