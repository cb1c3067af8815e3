// Package constants holds build-time defaults shared across the launcher.
package constants

import (
	"time"

	"github.com/emberlauncher/ember/internal/version"
)

// Application identity
const (
	// AppName is the user-visible application name.
	AppName = "Ember Launcher"

	// AppID is the reverse-DNS identifier used by the GUI toolkit.
	AppID = "org.emberlauncher.ember"

	// ConfigDirName is the directory under ~/.config holding launcher state.
	ConfigDirName = "ember"

	// SettingsFileName is the settings file inside the config directory.
	SettingsFileName = "ember.cfg"
)

// Build-time service defaults. These are the placeholder values shown for the
// override fields on the API settings page; an empty override falls back to
// these at use time.
const (
	// DefaultMetaURL is the metadata server consulted for version indexes
	// and remote launcher properties.
	DefaultMetaURL = "https://meta.emberlauncher.org/v1/"

	// DefaultResourceBase is the Minecraft asset download base.
	DefaultResourceBase = "https://resources.download.minecraft.net/"

	// DefaultLibraryBase is the Minecraft library download base.
	DefaultLibraryBase = "https://libraries.minecraft.net/"

	// PropertiesDocument is the path of the remote properties file, relative
	// to the effective meta URL.
	PropertiesDocument = "properties.json"
)

// DefaultUserAgent returns the user agent sent when no override is set.
func DefaultUserAgent() string {
	return "EmberLauncher/" + version.Version
}

// HTTP client tuning
const (
	// HTTPDialTimeout - TCP connect timeout
	HTTPDialTimeout = 10 * time.Second

	// HTTPDialKeepAlive - TCP keep-alive interval
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long idle connections are kept in the pool
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - extended for slow networks
	HTTPTLSHandshakeTimeout = 20 * time.Second

	// HTTPExpectContinueTimeout - for HTTP 100-continue
	HTTPExpectContinueTimeout = 5 * time.Second

	// HTTPRequestTimeout - overall per-request ceiling for small API calls
	// (property documents, paste uploads). Large transfers are not a concern
	// for this client.
	HTTPRequestTimeout = 60 * time.Second
)

// Retry configuration for the shared retryablehttp client
const (
	// RetryMax - maximum retry attempts for transient errors
	RetryMax = 4

	// RetryWaitMin - initial backoff delay
	RetryWaitMin = 500 * time.Millisecond

	// RetryWaitMax - backoff ceiling
	RetryWaitMax = 10 * time.Second
)

// Event bus buffer sizing
const (
	// EventBusDefaultBuffer - default per-subscriber channel buffer
	EventBusDefaultBuffer = 100

	// EventBusMaxBuffer - cap on per-subscriber channel buffer
	EventBusMaxBuffer = 1000
)
