// Package paste defines the paste services a log excerpt can be uploaded to.
package paste

// Service describes one paste service. Services are keyed by stable ID;
// Services order is display order only and may be rearranged freely.
type Service struct {
	// ID is the stable identifier persisted in the settings store.
	ID string

	// DisplayName is the user-visible service name.
	DisplayName string

	// DefaultBase is the API base URL used when no custom base is configured.
	DefaultBase string
}

// Services is the fixed list of supported paste services, in display order.
var Services = []Service{
	{ID: "mclogs", DisplayName: "mclo.gs", DefaultBase: "https://api.mclo.gs"},
	{ID: "0x0", DisplayName: "0x0.st", DefaultBase: "https://0x0.st"},
	{ID: "pastegg", DisplayName: "paste.gg", DefaultBase: "https://paste.gg"},
	{ID: "hastebin", DisplayName: "hastebin", DefaultBase: "https://hst.sh"},
}

// ByID returns the service with the given stable ID.
func ByID(id string) (Service, bool) {
	for _, svc := range Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

// DisplayNames returns the display names in display order, for select widgets.
func DisplayNames() []string {
	names := make([]string, len(Services))
	for i, svc := range Services {
		names[i] = svc.DisplayName
	}
	return names
}

// ByDisplayName returns the service with the given display name.
func ByDisplayName(name string) (Service, bool) {
	for _, svc := range Services {
		if svc.DisplayName == name {
			return svc, true
		}
	}
	return Service{}, false
}

// ResolveBase returns the effective API base for a service: the custom base
// when one is configured, otherwise the service default. An empty custom
// base silently falls back to the default.
func ResolveBase(svc Service, customBase string) string {
	if customBase != "" {
		return customBase
	}
	return svc.DefaultBase
}
