package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ContentHash derives the cache key for one analysis run from the corpus
// text and every configuration part that changes the result. Same inputs,
// same key; any parser or rule change invalidates.
func ContentHash(text string, parts ...string) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, part := range parts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Truncate shortens a string for log and report lines.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
