// Package strings holds small string guards shared by module wiring
package strings

import "strings"

// MustString panics when s is empty; what names the offender in the panic
func MustString(s, what string) string {
	if strings.TrimSpace(s) == "" {
		panic("missing required " + what)
	}
	return s
}

// MustPrefix validates a route prefix like "/names"
func MustPrefix(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		panic("invalid route prefix: " + p)
	}
	return p
}

// IfEmpty returns def when v has no elements
func IfEmpty[T any](v, def []T) []T {
	if len(v) == 0 {
		return def
	}
	return v
}
