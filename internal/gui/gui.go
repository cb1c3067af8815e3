// Package gui provides the graphical user interface for the launcher's
// settings pages.
package gui

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/events"
	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/meta"
	"github.com/emberlauncher/ember/internal/notify"
	"github.com/emberlauncher/ember/internal/settings"
)

var guiLogger *logging.Logger

// Launch starts the GUI with the API settings page.
func Launch(settingsPath string) error {
	guiLogger = logging.NewLogger("gui")

	if os.Getenv("EMBER_DEBUG") != "" {
		logging.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		logging.SetGlobalLevel(zerolog.WarnLevel)
	}

	if runtime.GOOS == "linux" {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return fmt.Errorf("GUI mode requires a display; DISPLAY and WAYLAND_DISPLAY are not set.\n" +
				"Use 'ember' without --gui for CLI mode")
		}
	}

	if settingsPath == "" {
		var err error
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to determine settings path: %w", err)
		}
	}

	bus := events.NewEventBus(0)
	defer bus.Close()

	store := settings.NewStore(settingsPath, bus)
	if err := store.Load(); err != nil {
		guiLogger.Warn().Err(err).Msg("failed to load settings, starting with defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.NewNotifier(true, guiLogger)
	notifier.Watch(ctx, bus)

	source := meta.NewProperty(store, bus, guiLogger)

	fyneApp := app.NewWithID(constants.AppID)
	window := fyneApp.NewWindow(constants.AppName + " - Settings")
	window.SetMaster()

	page := NewAPIPage(window, store, source)
	window.SetContent(page.Build())
	window.Resize(fyne.NewSize(640, 720))

	window.ShowAndRun()
	return nil
}
