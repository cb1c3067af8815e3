// Package validation provides input validation for the API settings page.
//
// These checks run at field-edit time, mirroring the edit-time pattern
// enforcement the settings page expects: a field whose content fails its
// pattern never reaches the store, so Apply itself does not validate.
package validation

import (
	"fmt"
	"regexp"
)

var (
	// urlPattern accepts http:// too; URL overrides are rewritten to https
	// during normalization at apply time.
	urlPattern = regexp.MustCompile(`^https?://.+$`)

	// msaClientIDPattern is a UUID v4 with correct variant bits, lowercase hex.
	msaClientIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	// flameKeyPattern is a bcrypt-shaped API token: $2a$/$2y$/$2b$ prefix
	// followed by exactly 56 characters.
	flameKeyPattern = regexp.MustCompile(`^\$2[ayb]\$.{56}$`)
)

// URL validates an http(s) URL field.
func URL(s string) error {
	if !urlPattern.MatchString(s) {
		return fmt.Errorf("must be an http:// or https:// URL")
	}
	return nil
}

// MSAClientID validates a Microsoft account OAuth client ID.
func MSAClientID(s string) error {
	if !msaClientIDPattern.MatchString(s) {
		return fmt.Errorf("must be a lowercase UUID, e.g. 17b5a6f0-5428-4cf9-9f5c-1b9e2d4f8a31")
	}
	return nil
}

// FlameKey validates a CurseForge-style API key.
func FlameKey(s string) error {
	if !flameKeyPattern.MatchString(s) {
		return fmt.Errorf("must be a $2a$/$2y$/$2b$ key of 60 characters")
	}
	return nil
}

// Optional wraps a field check so that the empty string passes. Override
// fields are optional; empty means "use the build default".
func Optional(check func(string) error) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		return check(s)
	}
}
