// Package stringutil provides string helpers shared across packages.
package stringutil

import (
	"net"
	"net/url"
	"strings"
)

// Truncate shortens s to at most maxLen bytes, replacing the tail with "..."
// when there is room for it.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// Redact keeps the first keep runes of a sensitive value and masks the rest,
// so messages can identify a value without repeating it.
func Redact(s string, keep int) string {
	runes := []rune(s)
	if len(runes) <= keep {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:keep]) + strings.Repeat("*", min(len(runes)-keep, 8))
}

// ExtractHost returns the hostname of raw. raw is parsed as a URL first; when
// that yields no hostname it is treated as a literal host, with any path and
// port removed.
func ExtractHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}

	host := raw
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host
}
