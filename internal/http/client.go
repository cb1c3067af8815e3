// Package http builds the HTTP clients shared by the meta downloader and
// the paste uploader, honoring the launcher's proxy settings.
package http

import (
	"crypto/tls"
	"fmt"
	"net"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http/httpproxy"

	"github.com/emberlauncher/ember/internal/constants"
	"github.com/emberlauncher/ember/internal/logging"
	"github.com/emberlauncher/ember/internal/settings"
)

// ConfigureClient configures an HTTP client with proxy settings from the store.
func ConfigureClient(store *settings.Store) (*nethttp.Client, error) {
	transport := &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
	}

	mode := strings.ToLower(store.GetOrDefault(settings.KeyProxyMode))
	switch mode {
	case "no-proxy", "":
		transport.Proxy = nil

	case "system":
		transport.Proxy = nethttp.ProxyFromEnvironment

	case "ntlm":
		// Fall back to no-proxy if host is missing (incomplete saved config)
		// so the GUI can still start and the user can fix the proxy page.
		if store.Get(settings.KeyProxyHost) == "" {
			transport.Proxy = nil
			break
		}
		proxyURL := buildProxyURL(store)
		transport.Proxy = proxyFuncWithBypass(proxyURL, store.Get(settings.KeyNoProxy))
		return &nethttp.Client{
			Transport: ntlmssp.Negotiator{
				RoundTripper: transport,
			},
			Timeout: constants.HTTPRequestTimeout,
		}, nil

	case "basic":
		if store.Get(settings.KeyProxyHost) == "" {
			transport.Proxy = nil
			break
		}
		proxyURL := buildProxyURL(store)
		transport.Proxy = proxyFuncWithBypass(proxyURL, store.Get(settings.KeyNoProxy))

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", mode)
	}

	return &nethttp.Client{
		Transport: transport,
		Timeout:   constants.HTTPRequestTimeout,
	}, nil
}

// NewRetryingClient wraps the configured client with retry logic for
// transient failures. The caller owns overall cancellation via context.
func NewRetryingClient(store *settings.Store, logger *logging.Logger) (*retryablehttp.Client, error) {
	base, err := ConfigureClient(store)
	if err != nil {
		return nil, err
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{logger: logger}

	return retryClient, nil
}

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Error().Fields(fieldMap(keysAndValues)).Msg(msg)
	}
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Warn().Fields(fieldMap(keysAndValues)).Msg(msg)
	}
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	// Request-level chatter stays at debug
	if l.logger != nil {
		l.logger.Debug().Fields(fieldMap(keysAndValues)).Msg(msg)
	}
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Debug().Fields(fieldMap(keysAndValues)).Msg(msg)
	}
}

func fieldMap(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

// buildProxyURL constructs a proxy URL from the stored proxy settings.
func buildProxyURL(store *settings.Store) *url.URL {
	host := store.Get(settings.KeyProxyHost)
	port, err := strconv.Atoi(store.Get(settings.KeyProxyPort))
	if err != nil || port <= 0 {
		port = 8080
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", host, port),
	}

	// Only embed credentials if both user AND password are provided.
	// An empty password in the URL can cause auth failures with some proxies.
	user := store.Get(settings.KeyProxyUser)
	pass := store.Get(settings.KeyProxyPassword)
	if user != "" && pass != "" {
		proxyURL.User = url.UserPassword(user, pass)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the NoProxy
// bypass list. With an empty list it behaves identically to http.ProxyURL.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
}

// NeedsProxyPassword returns true if the proxy configuration requires a
// password but one has not been provided. The CLI uses this to decide
// whether to prompt interactively.
func NeedsProxyPassword(store *settings.Store) bool {
	mode := strings.ToLower(store.GetOrDefault(settings.KeyProxyMode))
	if mode != "basic" && mode != "ntlm" {
		return false
	}
	return store.Get(settings.KeyProxyUser) != "" && store.Get(settings.KeyProxyPassword) == ""
}
