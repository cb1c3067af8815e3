// Package meta talks to the metadata server. Its one concern here is the
// remote properties document: a JSON map of setting overrides the server
// can push to launchers, downloaded and applied on explicit user request.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/events"
	emberhttp "github.com/emberlauncher/ember/internal/http"
	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/settings"
)

// ApplyResult is the tagged outcome of one DownloadAndApply call: either a
// map of applied settings or a human-readable failure reason. Exactly one
// result is delivered per call.
type ApplyResult struct {
	Applied map[string]string
	Reason  string
}

// OK reports whether the download and apply succeeded.
func (r ApplyResult) OK() bool {
	return r.Reason == ""
}

// Source is the collaborator contract the API settings page brokers for.
type Source interface {
	// URL returns the properties document URL currently in effect.
	URL() string

	// DownloadAndApply starts the download in the background and returns a
	// channel that delivers exactly one ApplyResult, then closes.
	DownloadAndApply(ctx context.Context) <-chan ApplyResult
}

// appliedKeys is the set of settings the meta server is allowed to push.
// Anything else in the document is ignored.
var appliedKeys = []string{
	settings.KeyPastebinType,
	settings.KeyPastebinCustomAPIBase,
	settings.KeyMSAClientIDOverride,
	settings.KeyMetaURLOverride,
	settings.KeyResourceURLOverride,
	settings.KeyLibrariesURLOverride,
	settings.KeyFlameKeyOverride,
	settings.KeyModrinthToken,
	settings.KeyUserAgentOverride,
}

// Property downloads the remote properties document and applies it to the
// settings store. Implements Source.
type Property struct {
	store  *settings.Store
	bus    *events.EventBus
	logger *logging.Logger

	// newClient is swapped in tests; defaults to the shared proxy-aware
	// retrying client.
	newClient func(*settings.Store, *logging.Logger) (*retryablehttp.Client, error)
}

// NewProperty creates the property downloader. The bus may be nil.
func NewProperty(store *settings.Store, bus *events.EventBus, logger *logging.Logger) *Property {
	return &Property{
		store:     store,
		bus:       bus,
		logger:    logger,
		newClient: emberhttp.NewRetryingClient,
	}
}

// URL returns the properties document URL, honoring the meta URL override.
func (p *Property) URL() string {
	base := p.store.GetOrDefault(settings.KeyMetaURLOverride)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + constants.PropertiesDocument
}

// DownloadAndApply fetches the properties document and writes the permitted
// keys into the settings store. The returned channel is buffered; the
// caller may consume it at leisure.
func (p *Property) DownloadAndApply(ctx context.Context) <-chan ApplyResult {
	results := make(chan ApplyResult, 1)
	sourceURL := p.URL()

	go func() {
		defer close(results)

		result := p.run(ctx, sourceURL)
		if result.OK() {
			p.logger.Info().Str("url", sourceURL).Int("count", len(result.Applied)).Msg("applied meta server properties")
			if p.bus != nil {
				p.bus.PublishPropertiesApplied(sourceURL, result.Applied)
			}
		} else {
			p.logger.Warn().Str("url", sourceURL).Str("reason", result.Reason).Msg("meta server property apply failed")
			if p.bus != nil {
				p.bus.PublishPropertiesFailed(sourceURL, result.Reason)
			}
		}

		results <- result
	}()

	return results
}

func (p *Property) run(ctx context.Context, sourceURL string) ApplyResult {
	client, err := p.newClient(p.store, p.logger)
	if err != nil {
		return ApplyResult{Reason: fmt.Sprintf("failed to configure HTTP client: %v", err)}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", sourceURL, nil)
	if err != nil {
		return ApplyResult{Reason: fmt.Sprintf("invalid properties URL: %v", err)}
	}
	req.Header.Set("User-Agent", p.store.GetOrDefault(settings.KeyUserAgentOverride))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	resp, err := client.Do(req)
	if err != nil {
		return ApplyResult{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ApplyResult{Reason: fmt.Sprintf("server returned %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ApplyResult{Reason: fmt.Sprintf("failed to read properties document: %v", err)}
	}

	var document map[string]string
	if err := json.Unmarshal(body, &document); err != nil {
		return ApplyResult{Reason: fmt.Sprintf("malformed properties document: %v", err)}
	}

	// Any subset of the permitted keys may be present; absent keys are
	// implicitly unchanged.
	applied := make(map[string]string)
	for _, key := range appliedKeys {
		if value, ok := document[key]; ok {
			p.store.Set(key, value)
			applied[key] = value
		}
	}

	if len(applied) > 0 {
		if err := p.store.Save(); err != nil {
			return ApplyResult{Reason: fmt.Sprintf("failed to persist applied properties: %v", err)}
		}
	}

	return ApplyResult{Applied: applied}
}
