package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/emberlauncher/ember/internal/meta"
)

func newMetaCmd() *cobra.Command {
	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Interact with the meta server",
	}

	metaCmd.AddCommand(newMetaURLCmd())
	metaCmd.AddCommand(newMetaApplyCmd())
	return metaCmd
}

func newMetaURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties-url",
		Short: "Print the effective properties document URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			fmt.Println(meta.NewProperty(store, nil, GetLogger()).URL())
			return nil
		},
	}
}

func newMetaApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply-properties",
		Short: "Download properties from the meta server and apply them",
		Long: `Download the properties document from the meta server and apply
recognized settings from it, then save the settings file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			source := meta.NewProperty(store, nil, GetLogger())
			sourceURL := source.URL()
			fmt.Printf("Downloading properties from %s\n", sourceURL)

			result := <-source.DownloadAndApply(context.Background())
			if !result.OK() {
				return fmt.Errorf("failed to apply properties from %s: %s", sourceURL, result.Reason)
			}

			if len(result.Applied) == 0 {
				fmt.Println("No recognized settings in the properties document")
				return nil
			}

			keys := make([]string, 0, len(result.Applied))
			for key := range result.Applied {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Printf("Applied %d setting(s):\n", len(keys))
			for _, key := range keys {
				fmt.Printf("  %s: %s\n", key, result.Applied[key])
			}
			return nil
		},
	}
}
