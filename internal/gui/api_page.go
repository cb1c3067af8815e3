package gui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/emberlauncher/ember/internal/apipage"
	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/meta"
	"github.com/emberlauncher/ember/internal/paste"
	"github.com/emberlauncher/ember/internal/settings"
	"github.com/emberlauncher/ember/internal/validation"
)

const applyPropertiesLabel = "Download and Apply Properties from the Meta Server"

// APIPage manages the API settings form: paste service selection, service
// URL overrides, and third-party API credentials.
type APIPage struct {
	window     fyne.Window
	store      *settings.Store
	controller *apipage.Controller

	// Form fields
	pasteServiceSelect *widget.Select
	baseURLEntry       *widget.Entry
	baseURLNote        *widget.Label
	msaClientIDEntry   *widget.Entry
	metaURLEntry       *widget.Entry
	resourceURLEntry   *widget.Entry
	librariesURLEntry  *widget.Entry
	flameKeyEntry      *widget.Entry
	modrinthTokenEntry *widget.Entry
	userAgentEntry     *widget.Entry

	applyPropertiesBtn *widget.Button
	statusLabel        *widget.Label

	// True while widget contents are being rewritten from the controller,
	// so programmatic SetText calls don't count as user edits.
	loading bool
}

// NewAPIPage creates the API settings page.
func NewAPIPage(window fyne.Window, store *settings.Store, source meta.Source) *APIPage {
	p := &APIPage{
		window:      window,
		store:       store,
		statusLabel: widget.NewLabel("Ready"),
	}
	p.controller = apipage.NewController(store, source, fyne.Do)

	p.controller.OnApplyStateChanged = func(inFlight bool) {
		if inFlight {
			p.applyPropertiesBtn.SetText("Downloading and Applying...")
			p.applyPropertiesBtn.Disable()
		} else {
			p.applyPropertiesBtn.SetText(applyPropertiesLabel)
			p.applyPropertiesBtn.Enable()
		}
	}
	p.controller.OnApplySucceeded = func(lines []string) {
		p.refreshFields()
		dialog.ShowInformation("OK",
			"The following meta server properties were successfully obtained:\n\n"+strings.Join(lines, "\n"),
			p.window)
	}
	p.controller.OnApplyFailed = func(sourceURL, reason string) {
		dialog.ShowError(
			fmt.Errorf("unable to download the properties file from\n%s\n\nReason: %s", sourceURL, reason),
			p.window)
	}

	return p
}

// Build creates the page UI.
func (p *APIPage) Build() fyne.CanvasObject {
	// Pastebin section
	p.baseURLEntry = widget.NewEntry()
	p.baseURLEntry.Validator = validation.Optional(validation.URL)
	p.baseURLEntry.OnChanged = func(string) {
		if p.loading {
			return
		}
		p.controller.Fields.PasteBaseURL = p.baseURLEntry.Text
		p.controller.ResetNote()
		p.updateNote()
	}

	p.baseURLNote = widget.NewLabel("Note: the custom base URL may not apply to the newly selected service.")
	p.baseURLNote.Importance = widget.WarningImportance
	p.baseURLNote.Wrapping = fyne.TextWrapWord

	p.pasteServiceSelect = widget.NewSelect(paste.DisplayNames(), p.onPasteServiceChanged)

	pasteSection := widget.NewForm(
		widget.NewFormItem("Paste Service", p.pasteServiceSelect),
		widget.NewFormItem("Base URL", p.baseURLEntry),
		widget.NewFormItem("", p.baseURLNote),
	)

	// Services section
	p.msaClientIDEntry = widget.NewEntry()
	p.msaClientIDEntry.Validator = validation.Optional(validation.MSAClientID)

	p.metaURLEntry = widget.NewEntry()
	p.metaURLEntry.Validator = validation.Optional(validation.URL)
	p.metaURLEntry.SetPlaceHolder(constants.DefaultMetaURL)

	p.resourceURLEntry = widget.NewEntry()
	p.resourceURLEntry.Validator = validation.Optional(validation.URL)
	p.resourceURLEntry.SetPlaceHolder(constants.DefaultResourceBase)

	p.librariesURLEntry = widget.NewEntry()
	p.librariesURLEntry.Validator = validation.Optional(validation.URL)
	p.librariesURLEntry.SetPlaceHolder(constants.DefaultLibraryBase)

	servicesSection := widget.NewForm(
		widget.NewFormItem("MSA Client ID", p.msaClientIDEntry),
		widget.NewFormItem("Meta Server URL", p.metaURLEntry),
		widget.NewFormItem("Resources URL", p.resourceURLEntry),
		widget.NewFormItem("Libraries URL", p.librariesURLEntry),
	)

	p.applyPropertiesBtn = widget.NewButton(applyPropertiesLabel, p.onApplyPropertiesClicked)

	// Credentials section
	p.flameKeyEntry = widget.NewPasswordEntry()
	p.flameKeyEntry.Validator = validation.Optional(validation.FlameKey)

	p.modrinthTokenEntry = widget.NewPasswordEntry()

	p.userAgentEntry = widget.NewEntry()
	p.userAgentEntry.SetPlaceHolder(constants.DefaultUserAgent())

	credentialsSection := widget.NewForm(
		widget.NewFormItem("CurseForge Key", p.flameKeyEntry),
		widget.NewFormItem("Modrinth Token", p.modrinthTokenEntry),
		widget.NewFormItem("User Agent", p.userAgentEntry),
	)

	applyButton := widget.NewButton("Apply Settings", p.onApplyClicked)
	applyButton.Importance = widget.HighImportance

	p.controller.Load()
	p.refreshFields()
	p.controller.ResetNote()
	p.updateNote()

	content := container.NewVBox(
		widget.NewCard("Log Upload", "", pasteSection),
		widget.NewCard("Services", "", container.NewVBox(servicesSection, p.applyPropertiesBtn)),
		widget.NewCard("API Keys", "", credentialsSection),
		widget.NewSeparator(),
		container.NewHBox(applyButton, p.statusLabel),
	)

	return container.NewVScroll(content)
}

// refreshFields rewrites every widget from the controller's field state.
func (p *APIPage) refreshFields() {
	p.loading = true
	defer func() { p.loading = false }()

	fields := p.controller.Fields
	if svc, ok := paste.ByID(fields.PasteServiceID); ok {
		p.pasteServiceSelect.SetSelected(svc.DisplayName)
		p.baseURLEntry.SetPlaceHolder(svc.DefaultBase)
	}
	p.baseURLEntry.SetText(fields.PasteBaseURL)
	p.msaClientIDEntry.SetText(fields.MSAClientID)
	p.metaURLEntry.SetText(fields.MetaURL)
	p.resourceURLEntry.SetText(fields.ResourceURL)
	p.librariesURLEntry.SetText(fields.LibrariesURL)
	p.flameKeyEntry.SetText(fields.FlameKey)
	p.modrinthTokenEntry.SetText(fields.ModrinthToken)
	p.userAgentEntry.SetText(fields.UserAgent)
}

// collectFields reads every widget back into the controller's field state.
func (p *APIPage) collectFields() {
	fields := &p.controller.Fields
	if svc, ok := paste.ByDisplayName(p.pasteServiceSelect.Selected); ok {
		fields.PasteServiceID = svc.ID
	}
	fields.PasteBaseURL = p.baseURLEntry.Text
	fields.MSAClientID = p.msaClientIDEntry.Text
	fields.MetaURL = p.metaURLEntry.Text
	fields.ResourceURL = p.resourceURLEntry.Text
	fields.LibrariesURL = p.librariesURLEntry.Text
	fields.FlameKey = p.flameKeyEntry.Text
	fields.ModrinthToken = p.modrinthTokenEntry.Text
	fields.UserAgent = p.userAgentEntry.Text
}

func (p *APIPage) onPasteServiceChanged(displayName string) {
	svc, ok := paste.ByDisplayName(displayName)
	if !ok {
		return
	}
	p.baseURLEntry.SetPlaceHolder(p.controller.PlaceholderFor(svc.ID))
	if p.loading {
		return
	}
	p.controller.Fields.PasteBaseURL = p.baseURLEntry.Text
	p.controller.ServiceChanged(svc.ID)
	p.updateNote()
}

func (p *APIPage) updateNote() {
	if p.controller.NoteVisible() {
		p.baseURLNote.Show()
	} else {
		p.baseURLNote.Hide()
	}
}

func (p *APIPage) onApplyPropertiesClicked() {
	p.controller.StartApply(context.Background())
}

func (p *APIPage) onApplyClicked() {
	p.collectFields()
	p.controller.Apply()

	if err := p.store.Save(); err != nil {
		dialog.ShowError(err, p.window)
		return
	}
	p.statusLabel.SetText("Settings saved")
}
