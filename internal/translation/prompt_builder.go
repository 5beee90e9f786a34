package translation

import (
	"fmt"
	"strings"

	"rw-translator/internal/interpolation"
)

// BatchDelimiter separates translations in a batch response.
const BatchDelimiter = "|||"

// PromptBuilder constructs system and user prompts for translation.
type PromptBuilder struct {
	from string
	to   string
}

// NewPromptBuilder creates a prompt builder for one language pair. from and
// to are English language names.
func NewPromptBuilder(from, to string) *PromptBuilder {
	return &PromptBuilder{from: from, to: to}
}

const systemPromptTemplate = `You are a professional localizer for Rusted Warfare, a real-time strategy game. You translate unit names, descriptions and in-game messages from mod files.

Rules:
1. Translate %[1]s to %[2]s.
2. The character %[3]s marks a game expression. Copy every %[3]s exactly as-is, keep the same count, and never translate, remove or add one.
3. Preserve line breaks, numbers, and punctuation such as colons and brackets.
4. Output ONLY the %[2]s translation, nothing else.
5. Do NOT add explanations, notes, quotes, or extra text.
6. Keep unit and UI text concise and natural in %[2]s.
7. Maintain the same tone and register as the original.`

// GetSystemPrompt returns the system prompt for translation.
func (pb *PromptBuilder) GetSystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, pb.from, pb.to, string(interpolation.Sentinel))
}

// BuildUserPrompt constructs the prompt for a single masked text.
func (pb *PromptBuilder) BuildUserPrompt(text string) string {
	return fmt.Sprintf("Text to translate:\n%s", text)
}

// BuildBatchUserPrompt constructs a prompt for batch translations.
func (pb *PromptBuilder) BuildBatchUserPrompt(texts []string) string {
	var sb strings.Builder

	sb.WriteString("Translate each text below. Return ONLY the translations, separated by " + BatchDelimiter + " delimiter, in the same order, without the [n] markers.\n\n")
	for i, t := range texts {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, t))
	}

	return sb.String()
}

// SplitBatchResponse splits a batch reply into its parts, dropping any echoed
// [n] markers.
func SplitBatchResponse(response string) []string {
	parts := strings.Split(response, BatchDelimiter)
	for i, p := range parts {
		parts[i] = stripMarker(strings.TrimSpace(p))
	}
	// A trailing delimiter leaves an empty tail.
	if n := len(parts); n > 1 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

func stripMarker(s string) string {
	if !strings.HasPrefix(s, "[") {
		return s
	}
	end := strings.IndexByte(s, ']')
	if end < 2 {
		return s
	}
	for _, r := range s[1:end] {
		if r < '0' || r > '9' {
			return s
		}
	}
	return strings.TrimSpace(s[end+1:])
}
