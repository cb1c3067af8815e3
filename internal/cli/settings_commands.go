package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/emberlauncher/ember/internal/apipage"
	"github.com/emberlauncher/ember/internal/paste"
	"github.com/emberlauncher/ember/internal/settings"
	"github.com/emberlauncher/ember/internal/validation"
)

// secretKeys are masked in `settings show` output.
var secretKeys = map[string]bool{
	settings.KeyFlameKeyOverride: true,
	settings.KeyModrinthToken:    true,
	settings.KeyProxyPassword:    true,
}

// normalizedKeys get trailing-slash and https normalization on write,
// matching what the GUI apply step does.
var normalizedKeys = map[string]bool{
	settings.KeyMetaURLOverride:      true,
	settings.KeyResourceURLOverride:  true,
	settings.KeyLibrariesURLOverride: true,
}

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage launcher settings",
	}

	settingsCmd.AddCommand(newSettingsShowCmd())
	settingsCmd.AddCommand(newSettingsGetCmd())
	settingsCmd.AddCommand(newSettingsSetCmd())
	settingsCmd.AddCommand(newSettingsSetTokenCmd())
	settingsCmd.AddCommand(newSettingsPathCmd())
	return settingsCmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show all settings with their effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			for _, key := range settings.KnownKeys {
				raw := store.Get(key)
				switch {
				case raw == "" && store.Default(key) != "":
					fmt.Printf("%-30s (default: %s)\n", key, store.Default(key))
				case raw == "":
					fmt.Printf("%-30s (unset)\n", key)
				case secretKeys[key]:
					fmt.Printf("%-30s %s\n", key, maskSecret(raw))
				default:
					fmt.Printf("%-30s %s\n", key, raw)
				}
			}
			return nil
		},
	}
}

func newSettingsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !isKnownKey(key) {
				return fmt.Errorf("unknown setting %q (see 'ember settings show' for the full list)", key)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Println(store.GetOrDefault(key))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting and save",
		Long: `Set a setting and save the settings file.

URL overrides are normalized (trailing slash appended, http upgraded
to https). Pass an empty value to reset a setting to its default.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !isKnownKey(key) {
				return fmt.Errorf("unknown setting %q (see 'ember settings show' for the full list)", key)
			}

			if err := validateValue(key, value); err != nil {
				return err
			}
			if normalizedKeys[key] {
				value = apipage.NormalizeURL(value)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			store.Set(key, value)
			if err := store.Save(); err != nil {
				return err
			}

			if value == "" {
				fmt.Printf("%s reset to default\n", key)
			} else if secretKeys[key] {
				fmt.Printf("%s set\n", key)
			} else {
				fmt.Printf("%s set to %s\n", key, value)
			}
			return nil
		},
	}
}

func newSettingsSetTokenCmd() *cobra.Command {
	var keyName string

	cmd := &cobra.Command{
		Use:   "set-token",
		Short: "Set a secret token without echoing it to the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !secretKeys[keyName] {
				return fmt.Errorf("%q is not a secret setting", keyName)
			}

			fmt.Printf("Enter value for %s (input hidden): ", keyName)
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			value := strings.TrimSpace(string(raw))

			if err := validateValue(keyName, value); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			store.Set(keyName, value)
			if err := store.Save(); err != nil {
				return err
			}
			fmt.Printf("%s updated\n", keyName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyName, "key", "k", settings.KeyModrinthToken, "Secret setting to update")
	return cmd
}

func newSettingsPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsFile
			if path == "" {
				var err error
				path, err = settings.DefaultPath()
				if err != nil {
					return err
				}
			}
			fmt.Println(path)
			return nil
		},
	}
}

func isKnownKey(key string) bool {
	for _, k := range settings.KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// validateValue applies the same edit-time checks the GUI uses. An
// empty value always passes so settings can be reset.
func validateValue(key, value string) error {
	switch key {
	case settings.KeyMetaURLOverride, settings.KeyResourceURLOverride,
		settings.KeyLibrariesURLOverride, settings.KeyPastebinCustomAPIBase:
		return validation.Optional(validation.URL)(value)
	case settings.KeyMSAClientIDOverride:
		return validation.Optional(validation.MSAClientID)(value)
	case settings.KeyFlameKeyOverride:
		return validation.Optional(validation.FlameKey)(value)
	case settings.KeyPastebinType:
		if value == "" {
			return nil
		}
		if _, ok := paste.ByID(value); !ok {
			return fmt.Errorf("unknown paste service %q (known: %s)", value, strings.Join(knownServiceIDs(), ", "))
		}
	}
	return nil
}

func knownServiceIDs() []string {
	ids := make([]string, 0, len(paste.Services))
	for _, svc := range paste.Services {
		ids = append(ids, svc.ID)
	}
	sort.Strings(ids)
	return ids
}

func maskSecret(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", 8) + value[len(value)-2:]
}
