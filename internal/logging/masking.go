// Package logging provides utilities for secure logging with data masking.
package logging

import (
	"strings"
)

// MaskHeader redacts sensitive header values based on header name.
// Returns the redacted value suitable for logging.
//
// Rules:
// - Password headers: "[REDACTED]" (no partial reveal)
// - Authorization and cookie headers: "****" + last4chars (e.g., "****ab3f")
// - Other headers: returned unchanged
func MaskHeader(name, value string) string {
	lowerName := strings.ToLower(name)

	if strings.Contains(lowerName, "password") || strings.Contains(lowerName, "secret") {
		return "[REDACTED]"
	}

	if lowerName == "authorization" || lowerName == "cookie" || lowerName == "set-cookie" {
		if len(value) < 4 {
			return "****"
		}
		return "****" + value[len(value)-4:]
	}

	return value
}

// MaskToken shortens a bearer token for log output, keeping only the last
// four characters. Never log raw tokens: they grant dashboard access until
// their expiry claim lapses.
func MaskToken(token string) string {
	if len(token) < 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
