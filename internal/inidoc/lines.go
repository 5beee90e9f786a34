package inidoc

import (
	"strings"
	"unicode"
)

const utf8BOM = "\uFEFF"

// detectNewline returns the terminator used by the first line break of content,
// defaulting to "\n" for single-line or empty input.
func detectNewline(content string) string {
	idx := strings.IndexByte(content, '\n')
	if idx > 0 && content[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// splitLines splits content on '\n', dropping a '\r' that directly precedes it.
// A trailing terminator does not produce an empty final line; the caller tracks
// that separately.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}

	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		end := i
		if i > start && content[i-1] == '\r' {
			end = i - 1
		}
		lines = append(lines, content[start:end])
		start = i + 1
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// joinLines is the inverse of splitLines for a fixed newline convention.
func joinLines(lines []string, newline string, trailing bool) string {
	var sb strings.Builder
	for i, line := range lines {
		sb.WriteString(line)
		if i < len(lines)-1 || trailing {
			sb.WriteString(newline)
		}
	}
	return sb.String()
}

// normalizeBreaks rewrites every line break inside value to newline so that
// rewritten multi-line values never mix conventions with the document.
func normalizeBreaks(value, newline string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return value
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	if newline != "\n" {
		value = strings.ReplaceAll(value, "\n", newline)
	}
	return value
}

func firstNonSpace(s string) int {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
}

// trimRightIndex returns the end of s[:limit] once trailing whitespace is removed.
func trimRightIndex(s string, limit int) int {
	return len(strings.TrimRightFunc(s[:limit], unicode.IsSpace))
}
