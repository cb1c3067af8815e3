package apipage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emberlauncher/ember/internal/meta"
	"github.com/emberlauncher/ember/internal/settings"
)

// fakeSource implements meta.Source with a test-controlled result channel.
type fakeSource struct {
	url     string
	results chan meta.ApplyResult
	calls   int
}

func (f *fakeSource) URL() string { return f.url }

func (f *fakeSource) DownloadAndApply(ctx context.Context) <-chan meta.ApplyResult {
	f.calls++
	return f.results
}

func newTestController(t *testing.T) (*Controller, *settings.Store, *fakeSource) {
	t.Helper()

	store := settings.NewStore(filepath.Join(t.TempDir(), "ember.cfg"), nil)
	source := &fakeSource{
		url:     "https://meta.example/v1/properties.json",
		results: make(chan meta.ApplyResult, 1),
	}
	return NewController(store, source, nil), store, source
}

func TestLoad_Defaults(t *testing.T) {
	c, _, _ := newTestController(t)

	c.Load()

	if c.Fields.PasteServiceID != settings.DefaultPasteService {
		t.Errorf("expected default paste service, got %q", c.Fields.PasteServiceID)
	}
	if c.Fields.MetaURL != "" || c.Fields.ModrinthToken != "" {
		t.Error("expected empty fields for unset keys")
	}
}

func TestLoad_UnrecognizedPasteServiceRepaired(t *testing.T) {
	c, store, _ := newTestController(t)
	store.Set(settings.KeyPastebinType, "99")
	store.Set(settings.KeyPastebinCustomAPIBase, "https://paste.example/")

	c.Load()

	if c.Fields.PasteServiceID != "mclogs" {
		t.Errorf("expected repair to mclogs, got %q", c.Fields.PasteServiceID)
	}
	if c.Fields.PasteBaseURL != "" {
		t.Errorf("expected cleared custom base field, got %q", c.Fields.PasteBaseURL)
	}
}

func TestLoad_KnownPasteServiceKept(t *testing.T) {
	c, store, _ := newTestController(t)
	store.Set(settings.KeyPastebinType, "pastegg")
	store.Set(settings.KeyPastebinCustomAPIBase, "https://paste.example/")

	c.Load()

	if c.Fields.PasteServiceID != "pastegg" {
		t.Errorf("expected pastegg, got %q", c.Fields.PasteServiceID)
	}
	if c.Fields.PasteBaseURL != "https://paste.example/" {
		t.Errorf("custom base must survive, got %q", c.Fields.PasteBaseURL)
	}
}

func TestApply_NormalizesOnlyDownloadURLs(t *testing.T) {
	c, store, _ := newTestController(t)
	c.Load()

	c.Fields.MetaURL = "http://meta.example/"
	c.Fields.ResourceURL = "https://resources.example/assets"
	c.Fields.LibrariesURL = ""
	c.Fields.PasteBaseURL = "http://paste.example" // not a normalized field
	c.Fields.ModrinthToken = "mrp_secret"
	c.Fields.UserAgent = "Agent/1.0"

	c.Apply()

	if got := store.Get(settings.KeyMetaURLOverride); got != "https://meta.example/" {
		t.Errorf("meta URL not normalized: %q", got)
	}
	if got := store.Get(settings.KeyResourceURLOverride); got != "https://resources.example/assets/" {
		t.Errorf("resource URL not normalized: %q", got)
	}
	if got := store.Get(settings.KeyLibrariesURLOverride); got != "" {
		t.Errorf("empty libraries URL must stay empty: %q", got)
	}
	if got := store.Get(settings.KeyPastebinCustomAPIBase); got != "http://paste.example" {
		t.Errorf("paste base must be written verbatim: %q", got)
	}
	if got := store.Get(settings.KeyModrinthToken); got != "mrp_secret" {
		t.Errorf("token must be written verbatim: %q", got)
	}
	if got := store.Get(settings.KeyUserAgentOverride); got != "Agent/1.0" {
		t.Errorf("user agent must be written verbatim: %q", got)
	}
}

func TestPlaceholderFor(t *testing.T) {
	c, _, _ := newTestController(t)

	if got := c.PlaceholderFor("hastebin"); got != "https://hst.sh" {
		t.Errorf("unexpected placeholder: %q", got)
	}
	if got := c.PlaceholderFor("nope"); got != "" {
		t.Errorf("unknown service should have empty placeholder, got %q", got)
	}
}

func TestNoteLatch(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Load()
	c.ResetNote() // page open: note hidden, latched to mclogs

	if c.NoteVisible() {
		t.Fatal("note must start hidden")
	}

	// User types a custom base while mclogs is selected
	c.Fields.PasteBaseURL = "https://paste.example/"
	c.ResetNote()

	// Switching away with a non-empty field shows the note
	c.ServiceChanged("hastebin")
	if !c.NoteVisible() {
		t.Error("note must show after switching away from the latched service")
	}

	// Switching back to the latched service hides it, field content aside
	c.ServiceChanged("mclogs")
	if c.NoteVisible() {
		t.Error("note must hide when the latched service is selected again")
	}

	// Away again: still non-empty, shows again
	c.ServiceChanged("pastegg")
	if !c.NoteVisible() {
		t.Error("note must show again on a second switch away")
	}

	// Editing the field re-latches to the current service
	c.ResetNote()
	if c.NoteVisible() {
		t.Error("edit must hide the note")
	}
	c.ServiceChanged("mclogs")
	if !c.NoteVisible() {
		t.Error("after re-latch to pastegg, switching to mclogs must show the note")
	}
}

func TestNoteLatch_EmptyFieldNeverShows(t *testing.T) {
	c, _, _ := newTestController(t)
	c.Load()
	c.ResetNote()

	c.ServiceChanged("hastebin")
	if c.NoteVisible() {
		t.Error("note must not show while the custom base field is empty")
	}
}

func TestStartApply_AtMostOneInFlight(t *testing.T) {
	c, _, source := newTestController(t)
	c.Load()

	stateChanges := make(chan bool, 4)
	c.OnApplyStateChanged = func(inFlight bool) { stateChanges <- inFlight }
	done := make(chan []string, 1)
	c.OnApplySucceeded = func(lines []string) { done <- lines }

	c.StartApply(context.Background())
	c.StartApply(context.Background()) // no-op while in flight
	c.StartApply(context.Background()) // still a no-op

	if source.calls != 1 {
		t.Fatalf("expected exactly one download, got %d", source.calls)
	}
	if got := <-stateChanges; got != true {
		t.Error("expected in-flight state change first")
	}

	source.results <- meta.ApplyResult{Applied: map[string]string{}}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for success callback")
	}
	if got := <-stateChanges; got != false {
		t.Error("expected idle state change after outcome")
	}

	// Back to Idle: a new apply may start
	source.results = make(chan meta.ApplyResult, 1)
	c.StartApply(context.Background())
	if source.calls != 2 {
		t.Errorf("expected a second download after returning to idle, got %d", source.calls)
	}
}

func TestStartApply_SucceededReloadsFields(t *testing.T) {
	c, store, source := newTestController(t)
	c.Load()

	done := make(chan []string, 1)
	c.OnApplySucceeded = func(lines []string) { done <- lines }

	c.StartApply(context.Background())

	// The collaborator wrote the store before reporting success
	store.Set(settings.KeyMetaURLOverride, "https://x/")
	source.results <- meta.ApplyResult{Applied: map[string]string{
		settings.KeyMetaURLOverride: "https://x/",
	}}

	var lines []string
	select {
	case lines = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for success callback")
	}

	if len(lines) != 1 || lines[0] != "MetaURLOverride: https://x/" {
		t.Errorf("unexpected applied lines: %v", lines)
	}
	if c.Fields.MetaURL != "https://x/" {
		t.Errorf("fields not refreshed after apply: %q", c.Fields.MetaURL)
	}
	if c.InFlight() {
		t.Error("controller must be idle after the outcome")
	}
}

func TestStartApply_FailedRestoresIdle(t *testing.T) {
	c, store, source := newTestController(t)
	c.Load()
	store.Set(settings.KeyModrinthToken, "keepme")

	failed := make(chan string, 1)
	c.OnApplyFailed = func(sourceURL, reason string) {
		if sourceURL != "https://meta.example/v1/properties.json" {
			t.Errorf("unexpected source URL: %q", sourceURL)
		}
		failed <- reason
	}

	c.StartApply(context.Background())
	source.results <- meta.ApplyResult{Reason: "network down"}

	select {
	case reason := <-failed:
		if reason != "network down" {
			t.Errorf("unexpected reason: %q", reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for failure callback")
	}

	if c.InFlight() {
		t.Error("controller must be idle after a failure")
	}
	if got := store.Get(settings.KeyModrinthToken); got != "keepme" {
		t.Errorf("failure must not mutate stored settings: %q", got)
	}
}

func TestAppliedLines_StableOrder(t *testing.T) {
	lines := appliedLines(map[string]string{
		"UserAgentOverride": "b",
		"MetaURLOverride":   "a",
	})
	if len(lines) != 2 || lines[0] != "MetaURLOverride: a" || lines[1] != "UserAgentOverride: b" {
		t.Errorf("unexpected lines: %v", lines)
	}
}
