package urlhandler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// CommentPrefix marks a line of a URL list file that is ignored
const CommentPrefix = "#"

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// HasScheme reports whether rawURL already starts with a URL scheme such as "https://".
func HasScheme(rawURL string) bool {
	return schemePattern.MatchString(rawURL)
}

// NormalizeLine turns one line of a URL list into an absolute URL.
//
// Blank lines and lines starting with CommentPrefix yield ok == false.
// URLs that already carry a scheme are returned unchanged, site-relative paths
// ("/explore/...") are prefixed with baseOrigin, and anything else passes through
// as-is. Applying NormalizeLine to its own output returns the same string.
func NormalizeLine(line, baseOrigin string) (normalized string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return "", false
	}

	if HasScheme(trimmed) {
		return trimmed, true
	}

	if strings.HasPrefix(trimmed, "/") {
		return strings.TrimRight(baseOrigin, "/") + trimmed, true
	}

	return trimmed, true
}

// ValidateBaseOrigin checks that origin can be prefixed to site-relative paths:
// it must have a scheme and a host and nothing after the path root.
func ValidateBaseOrigin(origin string) error {
	trimmed := strings.TrimSpace(origin)
	if trimmed == "" {
		return fmt.Errorf("base origin is empty")
	}
	if !HasScheme(trimmed) {
		return fmt.Errorf("base origin '%s' lacks a scheme", trimmed)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("invalid base origin '%s': %w", trimmed, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base origin '%s' lacks a hostname", trimmed)
	}
	if strings.Trim(parsed.Path, "/") != "" || parsed.RawQuery != "" || parsed.Fragment != "" {
		return fmt.Errorf("base origin '%s' must not contain a path, query or fragment", trimmed)
	}
	return nil
}

// Truncate shortens s to at most limit runes and appends "..." when it was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
