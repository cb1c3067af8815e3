package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/emberlauncher/ember/internal/paste"
	"github.com/emberlauncher/ember/internal/pasteupload"
	"github.com/emberlauncher/ember/internal/settings"
)

// maxPasteSize caps uploads; paste services reject huge logs anyway.
const maxPasteSize = 10 * 1024 * 1024

func newPasteCmd() *cobra.Command {
	var serviceID string

	cmd := &cobra.Command{
		Use:   "paste <file>",
		Short: "Upload a log file to the configured paste service",
		Long: `Upload a log file to the configured paste service and print the
share URL. The service can be overridden with --service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", path, err)
			}
			if info.Size() > maxPasteSize {
				return fmt.Errorf("%s is %d bytes, above the %d byte upload limit", path, info.Size(), maxPasteSize)
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			if serviceID != "" {
				if _, ok := paste.ByID(serviceID); !ok {
					return fmt.Errorf("unknown paste service %q", serviceID)
				}
				store.Set(settings.KeyPastebinType, serviceID)
			}

			content, err := readWithProgress(path, info.Size())
			if err != nil {
				return err
			}

			uploader := pasteupload.NewUploader(store, nil, GetLogger())
			svc := uploader.Service()
			fmt.Printf("Uploading %s to %s\n", filepath.Base(path), svc.DisplayName)

			shareURL, err := uploader.Upload(context.Background(), filepath.Base(path), content)
			if err != nil {
				return fmt.Errorf("upload to %s failed: %w", svc.DisplayName, err)
			}

			fmt.Println(shareURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&serviceID, "service", "", "Paste service to use for this upload (mclogs, 0x0, pastegg, hastebin)")
	return cmd
}

func readWithProgress(path string, size int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	bar := progressbar.DefaultBytes(size, "reading")
	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, bar), f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	_ = bar.Finish()

	return buf.String(), nil
}
