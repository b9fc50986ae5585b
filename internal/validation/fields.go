// Package validation turns untyped request payloads into typed records or
// per-field error maps. Every function here is pure: malformed input is a
// normal return value, never a panic or an error value.
package validation

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field name to a human-readable error message. An empty
// map means the input passed validation.
type FieldErrors map[string]string

// HasErrors reports whether any field failed validation.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

var validate = validator.New()

// isValidEmail checks the basic local@domain.tld shape.
func isValidEmail(email string) bool {
	return validate.Var(email, "email") == nil
}

// isHTTPURL reports whether raw parses as an absolute http or https URL.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidGithubProfileURL reports whether raw is a GitHub profile URL of the
// form https://github.com/<username> with no sub-paths.
func IsValidGithubProfileURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Host)
	if host != "github.com" && host != "www.github.com" {
		return false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return len(segments) == 1 && segments[0] != ""
}

// GithubUsername extracts the username from a valid GitHub profile URL.
// Returns "" when the URL is not a valid profile URL.
func GithubUsername(raw string) string {
	if !IsValidGithubProfileURL(raw) {
		return ""
	}
	u, _ := url.Parse(strings.TrimSpace(raw))
	return strings.Trim(u.Path, "/")
}
