// Package pasteupload uploads log excerpts to the configured paste service.
//
// The service and base URL come from the settings store at call time: the
// custom base URL wins when set, otherwise the selected service's default
// base is used. Each supported service speaks its own small protocol.
package pasteupload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/emberlauncher/ember/internal/events"
	emberhttp "github.com/emberlauncher/ember/internal/http"
	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/paste"
	"github.com/emberlauncher/ember/internal/settings"
)

// Uploader posts log excerpts to the configured paste service.
type Uploader struct {
	store  *settings.Store
	bus    *events.EventBus
	logger *logging.Logger

	// newClient is swapped in tests.
	newClient func(*settings.Store, *logging.Logger) (*retryablehttp.Client, error)
}

// NewUploader creates an uploader bound to the settings store. The bus may
// be nil.
func NewUploader(store *settings.Store, bus *events.EventBus, logger *logging.Logger) *Uploader {
	return &Uploader{
		store:     store,
		bus:       bus,
		logger:    logger,
		newClient: emberhttp.NewRetryingClient,
	}
}

// Service resolves the paste service currently selected in settings. An
// unrecognized stored service falls back to the default.
func (u *Uploader) Service() paste.Service {
	svc, ok := paste.ByID(u.store.GetOrDefault(settings.KeyPastebinType))
	if !ok {
		svc, _ = paste.ByID(settings.DefaultPasteService)
	}
	return svc
}

// Upload posts content under the given name and returns the share URL.
func (u *Uploader) Upload(ctx context.Context, name, content string) (string, error) {
	svc := u.Service()
	base := strings.TrimRight(paste.ResolveBase(svc, u.store.Get(settings.KeyPastebinCustomAPIBase)), "/")

	client, err := u.newClient(u.store, u.logger)
	if err != nil {
		return "", fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	var shareURL string
	switch svc.ID {
	case "mclogs":
		shareURL, err = u.uploadMclogs(ctx, client, base, content)
	case "0x0":
		shareURL, err = u.uploadNullPointer(ctx, client, base, name, content)
	case "pastegg":
		shareURL, err = u.uploadPasteGG(ctx, client, base, name, content)
	case "hastebin":
		shareURL, err = u.uploadHastebin(ctx, client, base, content)
	default:
		return "", fmt.Errorf("unsupported paste service: %s", svc.ID)
	}
	if err != nil {
		return "", fmt.Errorf("%s upload failed: %w", svc.DisplayName, err)
	}

	u.logger.Info().Str("service", svc.ID).Str("url", shareURL).Msg("uploaded log excerpt")
	if u.bus != nil {
		u.bus.Publish(&events.PasteUploadedEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventPasteUploaded, Time: time.Now()},
			Service:   svc.ID,
			ShareURL:  shareURL,
		})
	}
	return shareURL, nil
}

func (u *Uploader) do(ctx context.Context, client *retryablehttp.Client, method, requestURL, contentType string, body []byte) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", u.store.GetOrDefault(settings.KeyUserAgentOverride))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return client.Do(req)
}

// uploadMclogs posts the form-encoded content to the mclo.gs v1 API.
func (u *Uploader) uploadMclogs(ctx context.Context, client *retryablehttp.Client, base, content string) (string, error) {
	form := url.Values{"content": {content}}
	resp, err := u.do(ctx, client, "POST", base+"/1/log", "application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Success bool   `json:"success"`
		URL     string `json:"url"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if !payload.Success {
		return "", fmt.Errorf("server rejected upload: %s", payload.Error)
	}
	return payload.URL, nil
}

// uploadNullPointer posts a multipart file to a 0x0.st-compatible service,
// which answers with the share URL as plain text.
func (u *Uploader) uploadNullPointer(ctx context.Context, client *retryablehttp.Client, base, name, content string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(part, content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	resp, err := u.do(ctx, client, "POST", base, writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// uploadPasteGG creates an anonymous paste via the paste.gg v1 API.
func (u *Uploader) uploadPasteGG(ctx context.Context, client *retryablehttp.Client, base, name, content string) (string, error) {
	request := map[string]interface{}{
		"name": name,
		"files": []map[string]interface{}{
			{
				"name": name,
				"content": map[string]string{
					"format": "text",
					"value":  content,
				},
			},
		},
	}
	body, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	resp, err := u.do(ctx, client, "POST", base+"/api/v1/pastes", "application/json", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Status string `json:"status"`
		Result struct {
			ID string `json:"id"`
		} `json:"result"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if payload.Status != "success" {
		return "", fmt.Errorf("server rejected upload: %s", payload.Error)
	}
	return base + "/p/anonymous/" + payload.Result.ID, nil
}

// uploadHastebin posts the raw content to a hastebin-compatible /documents
// endpoint.
func (u *Uploader) uploadHastebin(ctx context.Context, client *retryablehttp.Client, base, content string) (string, error) {
	resp, err := u.do(ctx, client, "POST", base+"/documents", "text/plain", []byte(content))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if payload.Key == "" {
		return "", fmt.Errorf("server returned no document key")
	}
	return base + "/" + payload.Key, nil
}
