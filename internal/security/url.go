// Package security provides shared validation for visitor-facing URLs.
package security

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateLinkURL checks a URL entered by the page owner before it is
// rendered as a clickable destination. Script-capable schemes are rejected
// because the value ends up in an href attribute on the public page.
// Scheme-less values are allowed; they are treated as plain text or an
// email address downstream.
func ValidateLinkURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}

	lower := strings.ToLower(trimmed)
	for _, scheme := range []string{"javascript:", "data:", "vbscript:", "file:"} {
		if strings.HasPrefix(lower, scheme) {
			return fmt.Errorf("URL scheme %q is not allowed", strings.TrimSuffix(scheme, ":"))
		}
	}

	if !strings.Contains(trimmed, "://") && !strings.HasPrefix(lower, "mailto:") {
		// Bare value, e.g. "hi@example.com" or "example.com"
		return nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch parsed.Scheme {
	case "http", "https":
		if parsed.Hostname() == "" {
			return fmt.Errorf("URL must have a host")
		}
		return nil
	case "mailto":
		return nil
	default:
		return fmt.Errorf("URL scheme must be http, https or mailto, got %q", parsed.Scheme)
	}
}

// ValidateImageURL checks a URL used as an item thumbnail or page
// background. Images are fetched by the visitor's browser, so only http
// and https sources are accepted.
func ValidateImageURL(rawURL string) error {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid image URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("image URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("image URL must have a host")
	}
	return nil
}
