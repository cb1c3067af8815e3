package settings

// Setting keys for the API settings page. Key names are the stable
// identifiers used in the settings file; renaming one invalidates
// existing user configs.
const (
	// KeyPastebinType - stable ID of the selected paste service
	KeyPastebinType = "PastebinType"

	// KeyPastebinCustomAPIBase - custom paste service base URL; empty falls
	// back to the selected service's default at use time
	KeyPastebinCustomAPIBase = "PastebinCustomAPIBase"

	// KeyMSAClientIDOverride - Microsoft account OAuth client ID override
	KeyMSAClientIDOverride = "MSAClientIDOverride"

	// KeyMetaURLOverride - metadata server URL override
	KeyMetaURLOverride = "MetaURLOverride"

	// KeyResourceURLOverride - Minecraft resource download base override
	KeyResourceURLOverride = "MinecraftResourceURLOverride"

	// KeyLibrariesURLOverride - Minecraft library download base override
	KeyLibrariesURLOverride = "MinecraftLibrariesURLOverride"

	// KeyFlameKeyOverride - CurseForge-style API key override
	KeyFlameKeyOverride = "FlameKeyOverride"

	// KeyModrinthToken - Modrinth API token
	KeyModrinthToken = "ModrinthToken"

	// KeyUserAgentOverride - custom HTTP user agent
	KeyUserAgentOverride = "UserAgentOverride"
)

// Proxy settings consumed by the shared HTTP client.
const (
	// KeyProxyMode - one of "no-proxy", "system", "basic", "ntlm"
	KeyProxyMode = "ProxyMode"

	KeyProxyHost     = "ProxyHost"
	KeyProxyPort     = "ProxyPort"
	KeyProxyUser     = "ProxyUser"
	KeyProxyPassword = "ProxyPassword"

	// KeyNoProxy - comma-separated proxy bypass list (hosts/CIDRs)
	KeyNoProxy = "NoProxy"
)

// KnownKeys lists every key this store manages, in display order.
// Used by `ember settings show` and by Save to emit a stable file layout.
var KnownKeys = []string{
	KeyPastebinType,
	KeyPastebinCustomAPIBase,
	KeyMSAClientIDOverride,
	KeyMetaURLOverride,
	KeyResourceURLOverride,
	KeyLibrariesURLOverride,
	KeyFlameKeyOverride,
	KeyModrinthToken,
	KeyUserAgentOverride,
	KeyProxyMode,
	KeyProxyHost,
	KeyProxyPort,
	KeyProxyUser,
	KeyProxyPassword,
	KeyNoProxy,
}
