package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HasLetters reports whether s contains at least one letter in any script.
// Values made only of digits, symbols or masked placeholders are not worth
// sending to a translator.
func HasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Hash computes a SHA-256 hex hash of the given parts, joined by a separator
// that cannot appear in ordinary text.
func Hash(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// OneLine collapses line breaks so a value fits in a single log line.
func OneLine(s string) string {
	return strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`).Replace(s)
}
