// Package interpolation shields ${...} and %{...} template expressions from a
// translation step that must not alter them.
package interpolation

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Sentinel is the private-use character that stands in for a masked
// placeholder while text is being translated.
const Sentinel = '\uE000'

const sentinel = string(Sentinel)

// Payload is the result of Mask.
type Payload struct {
	// MaskedText has every top-level placeholder replaced by one Sentinel.
	MaskedText string
	// Placeholders holds the original expressions in left-to-right order.
	Placeholders []string
}

// HasPlaceholders reports whether anything was masked.
func (p Payload) HasPlaceholders() bool {
	return len(p.Placeholders) > 0
}

// Restore puts the recorded placeholders back into translated.
func (p Payload) Restore(translated string) string {
	return Restore(translated, p.Placeholders)
}

// Mask replaces each outermost closed ${...} or %{...} span with Sentinel.
// Nested expressions stay inside their parent; an opener that is never closed
// is left as literal text.
func Mask(text string) Payload {
	if text == "" {
		return Payload{MaskedText: text}
	}

	var (
		placeholders []string
		openers      []int
		masked       strings.Builder
		last         int
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if (c == '$' || c == '%') && i+1 < len(text) && text[i+1] == '{' {
			openers = append(openers, i)
			i++
			continue
		}

		if c != '}' || len(openers) == 0 {
			continue
		}

		start := openers[len(openers)-1]
		openers = openers[:len(openers)-1]
		if len(openers) > 0 {
			continue
		}

		placeholders = append(placeholders, text[start:i+1])
		masked.WriteString(text[last:start])
		masked.WriteRune(Sentinel)
		last = i + 1
	}

	if len(placeholders) == 0 {
		return Payload{MaskedText: text}
	}
	masked.WriteString(text[last:])

	log.Debug().Int("placeholders", len(placeholders)).Msg("Masked placeholders")
	return Payload{MaskedText: masked.String(), Placeholders: placeholders}
}

// Restore replaces the n-th Sentinel in text with the n-th placeholder.
// Restoration is positional: surplus placeholders are dropped and surplus
// sentinels are left in place.
func Restore(text string, placeholders []string) string {
	if text == "" || len(placeholders) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	next := 0
	rest := text
	for next < len(placeholders) {
		i := strings.Index(rest, sentinel)
		if i < 0 {
			break
		}
		sb.WriteString(rest[:i])
		sb.WriteString(placeholders[next])
		next++
		rest = rest[i+len(sentinel):]
	}
	sb.WriteString(rest)

	if next != len(placeholders) {
		log.Debug().
			Int("restored", next).
			Int("expected", len(placeholders)).
			Msg("Placeholder count mismatch")
	}
	return sb.String()
}

// Count returns how many sentinels text contains.
func Count(text string) int {
	return strings.Count(text, sentinel)
}
