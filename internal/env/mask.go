package env

import "strings"

// MaskSecret hides all but the last visible characters of value.
func MaskSecret(value string, visible int) string {
	if len(value) <= visible {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-visible) + value[len(value)-visible:]
}

// MaskKey shows the 7-character prefix (e.g. "sk_live") and the last four
// characters of an API key.
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:7] + strings.Repeat("*", len(key)-11) + key[len(key)-4:]
}
