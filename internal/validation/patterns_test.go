package validation

import (
	"strings"
	"testing"
)

func TestURL(t *testing.T) {
	valid := []string{
		"https://meta.example/v1/",
		"http://meta.example",
		"https://x",
	}
	for _, s := range valid {
		if err := URL(s); err != nil {
			t.Errorf("URL(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{
		"",
		"https://",
		"ftp://meta.example/",
		"meta.example",
		"httpss://meta.example/",
	}
	for _, s := range invalid {
		if err := URL(s); err == nil {
			t.Errorf("URL(%q) expected error", s)
		}
	}
}

func TestMSAClientID(t *testing.T) {
	valid := []string{
		"17b5a6f0-5428-4cf9-9f5c-1b9e2d4f8a31",
		"00000000-0000-4000-8000-000000000000",
		"ffffffff-ffff-4fff-bfff-ffffffffffff",
	}
	for _, s := range valid {
		if err := MSAClientID(s); err != nil {
			t.Errorf("MSAClientID(%q) unexpected error: %v", s, err)
		}
	}

	invalid := []string{
		"",
		"17B5A6F0-5428-4CF9-9F5C-1B9E2D4F8A31", // uppercase
		"17b5a6f0-5428-1cf9-9f5c-1b9e2d4f8a31", // wrong version nibble
		"17b5a6f0-5428-4cf9-7f5c-1b9e2d4f8a31", // wrong variant nibble
		"17b5a6f054284cf99f5c1b9e2d4f8a31",     // no dashes
		"17b5a6f0-5428-4cf9-9f5c-1b9e2d4f8a3",  // too short
	}
	for _, s := range invalid {
		if err := MSAClientID(s); err == nil {
			t.Errorf("MSAClientID(%q) expected error", s)
		}
	}
}

func TestFlameKey(t *testing.T) {
	if err := FlameKey("$2a$" + strings.Repeat("x", 56)); err != nil {
		t.Errorf("unexpected error for valid $2a$ key: %v", err)
	}
	if err := FlameKey("$2y$" + strings.Repeat(".", 56)); err != nil {
		t.Errorf("unexpected error for valid $2y$ key: %v", err)
	}
	if err := FlameKey("$2b$" + strings.Repeat("0", 56)); err != nil {
		t.Errorf("unexpected error for valid $2b$ key: %v", err)
	}

	invalid := []string{
		"",
		"$2c$" + strings.Repeat("x", 56), // unknown prefix
		"$2a$" + strings.Repeat("x", 55), // too short
		"$2a$" + strings.Repeat("x", 57), // too long
		"2a$" + strings.Repeat("x", 56),  // missing leading $
	}
	for _, s := range invalid {
		if err := FlameKey(s); err == nil {
			t.Errorf("FlameKey(%q) expected error", s)
		}
	}
}

func TestOptional(t *testing.T) {
	check := Optional(URL)

	if err := check(""); err != nil {
		t.Errorf("empty input should pass an Optional check: %v", err)
	}
	if err := check("https://meta.example/"); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
	if err := check("not a url"); err == nil {
		t.Error("invalid input should still fail an Optional check")
	}
}
