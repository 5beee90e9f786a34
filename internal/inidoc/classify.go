package inidoc

import (
	"strings"
	"unicode"
)

const tripleQuote = `"""`

// classifyLine turns one physical line into a segment, or into a pending
// triple-quote collector when a multi-line value starts on it. It never fails;
// anything it does not understand becomes a RawSegment.
func classifyLine(line string, lineNum int, section, placeholder, newline string) (Segment, *tripleCollector) {
	trimmed := strings.TrimSpace(line)

	if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#' {
		return &RawSegment{Text: line, Line: lineNum}, nil
	}

	if trimmed[0] == '[' && strings.Contains(trimmed, "]") {
		name := strings.TrimSpace(trimmed[1:strings.IndexByte(trimmed, ']')])
		return &SectionSegment{Text: line, Name: name}, nil
	}

	delim := findDelimiter(line)
	if delim < 0 {
		if looksLikeBareKey(trimmed) {
			return &BareEntrySegment{Section: section, Key: trimmed, Text: line}, nil
		}
		return &RawSegment{Text: line, Line: lineNum}, nil
	}

	key := strings.TrimSpace(line[:delim])
	if key == "" {
		return &RawSegment{Text: line, Line: lineNum}, nil
	}

	return parseEntryLine(line, delim, section, key, placeholder, newline)
}

// findDelimiter returns the index of the first '=' or ':' outside double quotes.
func findDelimiter(line string) int {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inQuotes = !inQuotes
		}
		if !inQuotes && (c == '=' || c == ':') {
			return i
		}
	}
	return -1
}

func looksLikeBareKey(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.IsSpace(r) || r == '=' || r == ':' {
			return false
		}
	}
	return true
}

// parseEntryLine determines the value style of a delimited line.
func parseEntryLine(line string, delim int, section, key, placeholder, newline string) (Segment, *tripleCollector) {
	after := line[delim+1:]
	valueStart := firstNonSpace(after)

	prefixEnd := delim + 1 + len(after)
	remainder := ""
	if valueStart >= 0 {
		prefixEnd = delim + 1 + valueStart
		remainder = after[valueStart:]
	}
	prefix := line[:prefixEnd]

	if strings.HasPrefix(remainder, tripleQuote) {
		return openTriple(line, section, key, prefix, "", remainder[len(tripleQuote):], placeholder, newline)
	}

	if idx := findInlineTripleQuote(remainder); idx >= 0 {
		return openTriple(line, section, key, prefix, remainder[:idx], remainder[idx+len(tripleQuote):], placeholder, newline)
	}

	token, suffix := splitValueAndComment(remainder)
	return &EntrySegment{
		Section:     section,
		Key:         key,
		Prefix:      prefix,
		Suffix:      suffix,
		Style:       styleOf(token),
		LiteralText: line,
		ValueToken:  token,
	}, nil
}

// openTriple builds the entry directly when the closing quotes are on the same
// line, and a collector otherwise.
func openTriple(line, section, key, prefix, inlinePrefix, afterOpen, placeholder, newline string) (Segment, *tripleCollector) {
	if idx := strings.Index(afterOpen, tripleQuote); idx >= 0 {
		return &EntrySegment{
			Section:       section,
			Key:           key,
			Prefix:        prefix,
			Suffix:        afterOpen[idx+len(tripleQuote):],
			Style:         TripleQuoted,
			Placeholder:   placeholder,
			LiteralText:   line,
			TripleContent: afterOpen[:idx],
			InlinePrefix:  inlinePrefix,
		}, nil
	}

	c := newTripleCollector(section, key, prefix, inlinePrefix, placeholder, newline, line)
	c.content.WriteString(afterOpen)
	return nil, c
}

// findInlineTripleQuote finds an opening triple quote that follows literal
// value text, e.g. `key = prefix"""...`.
func findInlineTripleQuote(text string) int {
	inQuotes := false
	for i := 0; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}
		if !inQuotes && strings.HasPrefix(text[i:], tripleQuote) {
			return i
		}
		inQuotes = !inQuotes
	}
	return -1
}

// splitValueAndComment separates the value token from a trailing ';' comment.
// The suffix keeps the whitespace between token and comment.
func splitValueAndComment(remainder string) (token, suffix string) {
	inQuotes := false
	for i := 0; i < len(remainder); i++ {
		c := remainder[i]
		if c == '"' {
			inQuotes = !inQuotes
		}
		if !inQuotes && c == ';' {
			end := trimRightIndex(remainder, i)
			return remainder[:end], remainder[end:]
		}
	}
	end := trimRightIndex(remainder, len(remainder))
	return remainder[:end], remainder[end:]
}

func styleOf(token string) Style {
	t := strings.TrimSpace(token)
	if len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"' {
		return DoubleQuoted
	}
	return Unquoted
}

// decodeValue is how the key/value loader reads the text after a delimiter:
// comment stripped, trimmed, and unquoted when double-quoted.
func decodeValue(remainder string) string {
	token, _ := splitValueAndComment(remainder)
	token = strings.TrimSpace(token)
	if styleOf(token) == DoubleQuoted {
		return unescapeQuotes(token[1 : len(token)-1])
	}
	return token
}

// unescapeQuotes resolves \" and \\; any other backslash sequence is kept.
func unescapeQuotes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			sb.WriteByte(s[i+1])
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func escapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// needsQuotes reports whether a rewritten single-line value must be quoted.
func needsQuotes(value string) bool {
	return value == "" || startsOrEndsWithSpace(value) || strings.Contains(value, ";")
}

func startsOrEndsWithSpace(value string) bool {
	return strings.TrimFunc(value, unicode.IsSpace) != value
}

// defaultEntryLine formats an entry that has no source line to imitate.
func defaultEntryLine(key, value, newline string) string {
	if strings.ContainsAny(value, "\r\n") {
		return key + ` = """` + normalizeBreaks(value, newline) + `"""`
	}
	if value == "" || startsOrEndsWithSpace(value) || strings.ContainsAny(value, ";#") {
		return key + ` = "` + escapeQuotes(value) + `"`
	}
	return key + " = " + value
}
