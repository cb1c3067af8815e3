package apipage

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL override before it is written to the
// settings store:
//
//   - the empty string stays empty (meaning "use the build default")
//   - the path component gains a trailing slash if it lacks one
//   - an exact http scheme is rewritten to https; every other scheme,
//     including no scheme at all, passes through untouched
//
// The function is idempotent and never rejects its input; unparseable
// strings are returned as-is. This is not URL-join logic, only the
// trailing-slash and scheme guarantees the download subsystem relies on.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.Opaque == "" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if u.Scheme == "http" {
		u.Scheme = "https"
	}

	return u.String()
}
