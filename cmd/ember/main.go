// Ember Launcher - API settings tool
//
// - No args + display available → GUI mode
// - No args + no display → CLI help
// - --gui → GUI mode (force)
// - --cli → CLI mode (force)
// - CLI subcommands/flags → CLI mode
package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/emberlauncher/ember/internal/cli"
	"github.com/emberlauncher/ember/internal/gui"
)

func main() {
	if isCLIMode() {
		args := os.Args[1:]
		args = slices.DeleteFunc(args, func(a string) bool { return a == "--cli" })

		rootCmd := cli.NewRootCmd()
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := gui.Launch(settingsArg()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCLIMode determines whether to run in CLI mode based on arguments and
// environment.
//
// CLI mode when:
// - --cli flag is present (force CLI mode)
// - CLI subcommands are present (settings, meta, paste)
// - CLI flags are present (--help, --version, -h)
// - No display available (DISPLAY/WAYLAND_DISPLAY not set on Linux)
//
// GUI mode when:
// - --gui flag is present (force GUI mode)
// - No arguments and display is available
func isCLIMode() bool {
	if slices.Contains(os.Args, "--cli") {
		return true
	}
	if slices.Contains(os.Args, "--gui") {
		return false
	}

	cliPatterns := []string{
		"settings", "meta", "paste", "completion",
		"--help", "-h", "--version",
	}
	for _, arg := range os.Args[1:] {
		if slices.Contains(cliPatterns, arg) {
			return true
		}
	}

	if len(os.Args) == 1 {
		if runtime.GOOS == "linux" {
			if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
				return true
			}
		}
		return false
	}

	// Unknown arguments: let the CLI report them.
	return true
}

// settingsArg extracts the --settings flag for GUI mode, which bypasses
// cobra flag parsing.
func settingsArg() string {
	for i, arg := range os.Args[1:] {
		switch {
		case arg == "--settings" || arg == "-s":
			rest := os.Args[i+2:]
			if len(rest) > 0 {
				return rest[0]
			}
		case strings.HasPrefix(arg, "--settings="):
			return strings.TrimPrefix(arg, "--settings=")
		}
	}
	return ""
}
