package utils

import "strings"

// CanonicalText returns a DNS name in canonical text form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dot
// Store keys and membership checks all go through this one form so
// presentation differences never split an identity.
func CanonicalText(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}
