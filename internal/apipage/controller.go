// Package apipage binds the API settings page to the settings store and
// brokers the remote "download and apply properties" flow.
//
// The controller is presentation-free: the GUI reads and writes the Fields
// struct and renders the note/placeholder/busy state the controller tracks.
// All controller methods must run on a single thread (the UI event thread in
// GUI mode); outcome delivery from the background download is marshalled
// back through the dispatch function supplied at construction.
package apipage

import (
	"context"
	"fmt"
	"sort"

	"github.com/emberlauncher/ember/internal/meta"
	"github.com/emberlauncher/ember/internal/paste"
	"github.com/emberlauncher/ember/internal/settings"
)

// Fields holds the editable field state of the API settings page. Values are
// the raw field contents; placeholder fallbacks are not materialized here.
type Fields struct {
	PasteServiceID string
	PasteBaseURL   string
	MSAClientID    string
	MetaURL        string
	ResourceURL    string
	LibrariesURL   string
	FlameKey       string
	ModrinthToken  string
	UserAgent      string
}

// Controller synchronizes Fields with the settings store and routes the
// outcome of the meta server property download.
type Controller struct {
	store    *settings.Store
	source   meta.Source
	dispatch func(func())

	Fields Fields

	noteVisible bool
	noteService string // service active at the last note clear
	inFlight    bool

	// Surface callbacks, invoked on the dispatch thread. Any of them may
	// be nil.
	OnApplyStateChanged func(inFlight bool)
	OnApplySucceeded    func(lines []string)
	OnApplyFailed       func(sourceURL, reason string)
}

// NewController wires the page controller to its collaborators. dispatch
// marshals a function onto the UI thread; pass nil to invoke inline (tests,
// CLI).
func NewController(store *settings.Store, source meta.Source, dispatch func(func())) *Controller {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return &Controller{
		store:    store,
		source:   source,
		dispatch: dispatch,
	}
}

// Load reads every page setting from the store into Fields. An unrecognized
// persisted paste service is stale state, not an error: it is silently
// repaired to the default service and the custom base field is cleared.
func (c *Controller) Load() {
	s := c.store

	serviceID := s.Get(settings.KeyPastebinType)
	baseURL := s.Get(settings.KeyPastebinCustomAPIBase)
	if serviceID == "" {
		serviceID = settings.DefaultPasteService
	}
	if _, ok := paste.ByID(serviceID); !ok {
		serviceID = settings.DefaultPasteService
		baseURL = ""
	}
	c.Fields.PasteServiceID = serviceID
	c.Fields.PasteBaseURL = baseURL

	c.Fields.MSAClientID = s.Get(settings.KeyMSAClientIDOverride)
	c.Fields.MetaURL = s.Get(settings.KeyMetaURLOverride)
	c.Fields.ResourceURL = s.Get(settings.KeyResourceURLOverride)
	c.Fields.LibrariesURL = s.Get(settings.KeyLibrariesURLOverride)
	c.Fields.FlameKey = s.Get(settings.KeyFlameKeyOverride)
	c.Fields.ModrinthToken = s.Get(settings.KeyModrinthToken)
	c.Fields.UserAgent = s.Get(settings.KeyUserAgentOverride)
}

// Apply writes Fields back to the store. The three download URL overrides
// are normalized; everything else is written verbatim. Field formats are
// enforced at edit time, so Apply itself cannot fail; persistence is the
// page's separate save step.
func (c *Controller) Apply() {
	s := c.store

	s.Set(settings.KeyPastebinType, c.Fields.PasteServiceID)
	s.Set(settings.KeyPastebinCustomAPIBase, c.Fields.PasteBaseURL)
	s.Set(settings.KeyMSAClientIDOverride, c.Fields.MSAClientID)
	s.Set(settings.KeyMetaURLOverride, NormalizeURL(c.Fields.MetaURL))
	s.Set(settings.KeyResourceURLOverride, NormalizeURL(c.Fields.ResourceURL))
	s.Set(settings.KeyLibrariesURLOverride, NormalizeURL(c.Fields.LibrariesURL))
	s.Set(settings.KeyFlameKeyOverride, c.Fields.FlameKey)
	s.Set(settings.KeyModrinthToken, c.Fields.ModrinthToken)
	s.Set(settings.KeyUserAgentOverride, c.Fields.UserAgent)
}

// PlaceholderFor returns the hint text for the custom base URL field given
// the selected paste service. Never mutates field or stored state.
func (c *Controller) PlaceholderFor(serviceID string) string {
	if svc, ok := paste.ByID(serviceID); ok {
		return svc.DefaultBase
	}
	return ""
}

// ResetNote hides the stale-base-URL note and records the currently
// selected service as the one the custom base was (last) edited under.
// Called on every edit of the custom base field, and once after page load.
func (c *Controller) ResetNote() {
	c.noteVisible = false
	c.noteService = c.Fields.PasteServiceID
}

// ServiceChanged records a new paste service selection and updates the
// stale-base-URL note: selecting the service the field was last edited
// under hides the note; selecting any other service shows it while the
// custom base field is non-empty.
func (c *Controller) ServiceChanged(serviceID string) {
	c.Fields.PasteServiceID = serviceID
	if serviceID == c.noteService {
		c.noteVisible = false
	} else if c.Fields.PasteBaseURL != "" {
		c.noteVisible = true
	}
}

// NoteVisible reports whether the stale-base-URL note should be shown.
func (c *Controller) NoteVisible() bool {
	return c.noteVisible
}

// InFlight reports whether a property download is outstanding.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// SourceURL returns the properties document URL of the collaborator.
func (c *Controller) SourceURL() string {
	return c.source.URL()
}

// StartApply triggers the remote property download. At most one download is
// outstanding at a time; calling StartApply while one is in flight is a
// no-op. The outcome callbacks fire later, on the dispatch thread.
func (c *Controller) StartApply(ctx context.Context) {
	if c.inFlight {
		return
	}
	c.inFlight = true
	if c.OnApplyStateChanged != nil {
		c.OnApplyStateChanged(true)
	}

	sourceURL := c.source.URL()
	results := c.source.DownloadAndApply(ctx)

	go func() {
		result := <-results
		c.dispatch(func() {
			c.finishApply(sourceURL, result)
		})
	}()
}

func (c *Controller) finishApply(sourceURL string, result meta.ApplyResult) {
	c.inFlight = false

	if result.OK() {
		// Applying properties may have changed stored values; refresh the
		// bound fields before reporting.
		c.Load()
		if c.OnApplySucceeded != nil {
			c.OnApplySucceeded(appliedLines(result.Applied))
		}
	} else {
		if c.OnApplyFailed != nil {
			c.OnApplyFailed(sourceURL, result.Reason)
		}
	}

	if c.OnApplyStateChanged != nil {
		c.OnApplyStateChanged(false)
	}
}

// appliedLines renders the applied map as "key: value" lines in a stable
// order for display.
func appliedLines(applied map[string]string) []string {
	keys := make([]string, 0, len(applied))
	for key := range applied {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, key := range keys {
		lines[i] = fmt.Sprintf("%s: %s", key, applied[key])
	}
	return lines
}
