package inidoc

import "strings"

// Kind identifies the variant of a Segment.
type Kind int

const (
	// KindRaw is a blank, comment-only or unparseable line.
	KindRaw Kind = iota
	// KindSection is a [name] header.
	KindSection
	// KindBareEntry is a key-looking token without a delimiter.
	KindBareEntry
	// KindEntry is a key/value entry, possibly spanning several lines.
	KindEntry
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindSection:
		return "section"
	case KindBareEntry:
		return "bare"
	case KindEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Style is the quoting style of an entry value as found in the source.
type Style int

const (
	Unquoted Style = iota
	DoubleQuoted
	TripleQuoted
)

func (s Style) String() string {
	switch s {
	case DoubleQuoted:
		return "double-quoted"
	case TripleQuoted:
		return "triple-quoted"
	default:
		return "unquoted"
	}
}

// Segment is one classified unit of the source document: a line or, for
// triple-quoted values, a run of lines.
type Segment interface {
	Kind() Kind
	// Literal is the exact source text of the segment without its final terminator.
	Literal() string
	// SanitizedText is the single-line form handed to the key/value loader.
	SanitizedText() string

	render(snap *Snapshot, newline string) (string, bool)
}

// RawSegment is emitted verbatim and never interacts with values.
type RawSegment struct {
	Text string
	// Line is the 1-based source line number.
	Line int
}

func (s *RawSegment) Kind() Kind            { return KindRaw }
func (s *RawSegment) Literal() string       { return s.Text }
func (s *RawSegment) SanitizedText() string { return s.Text }

func (s *RawSegment) render(*Snapshot, string) (string, bool) {
	return s.Text, true
}

// SectionSegment is a section header; it sets the active section for the
// segments that follow it.
type SectionSegment struct {
	Text string
	Name string
}

func (s *SectionSegment) Kind() Kind            { return KindSection }
func (s *SectionSegment) Literal() string       { return s.Text }
func (s *SectionSegment) SanitizedText() string { return s.Text }

func (s *SectionSegment) render(*Snapshot, string) (string, bool) {
	return s.Text, true
}

// BareEntrySegment is a lone key. It is never rewritten, but its key is
// consumed from the snapshot so it is not emitted again as an added entry.
type BareEntrySegment struct {
	Section string
	Key     string
	Text    string
}

func (s *BareEntrySegment) Kind() Kind            { return KindBareEntry }
func (s *BareEntrySegment) Literal() string       { return s.Text }
func (s *BareEntrySegment) SanitizedText() string { return s.Text }

func (s *BareEntrySegment) render(snap *Snapshot, _ string) (string, bool) {
	snap.Pop(s.Section, s.Key)
	return s.Text, true
}

// EntrySegment is a key/value entry.
type EntrySegment struct {
	Section string
	Key     string
	// Prefix is everything up to and including the delimiter and the
	// whitespace before the value.
	Prefix string
	// Suffix is the trailing whitespace and comment after the value, or the
	// text after the closing triple quote.
	Suffix string
	Style  Style
	// Placeholder stands in for the multi-line payload of triple-quoted
	// values in the sanitized projection.
	Placeholder   string
	LiteralText   string
	TripleContent string
	// ValueToken is the raw value text of single-line entries.
	ValueToken string
	// InlinePrefix is literal text between the prefix and an opening triple quote.
	InlinePrefix string

	value    string
	shadowed bool
}

func (e *EntrySegment) Kind() Kind      { return KindEntry }
func (e *EntrySegment) Literal() string { return e.LiteralText }

func (e *EntrySegment) SanitizedText() string {
	if e.Style == TripleQuoted {
		return e.Prefix + e.InlinePrefix + e.Placeholder + e.Suffix
	}
	return e.LiteralText
}

// Value is the value the key/value loader observes for this entry after raw
// values have been restored.
func (e *EntrySegment) Value() string { return e.value }

func (e *EntrySegment) render(snap *Snapshot, newline string) (string, bool) {
	if e.shadowed {
		// A later entry with the same key owns the value.
		if _, ok := snap.Peek(e.Section, e.Key); !ok {
			return "", false
		}
		return e.LiteralText, true
	}

	value, ok := snap.Pop(e.Section, e.Key)
	if !ok {
		return "", false
	}
	if value == e.value {
		return e.LiteralText, true
	}
	return e.format(value, newline), true
}

func (e *EntrySegment) format(value, newline string) string {
	escapedBreaks := strings.Contains(e.ValueToken, `\n`) || strings.Contains(e.ValueToken, `\r`)
	hasBreak := strings.ContainsAny(value, "\r\n")

	if e.Style != TripleQuoted && hasBreak && !escapedBreaks {
		return e.Prefix + `"""` + normalizeBreaks(value, newline) + `"""` + e.Suffix
	}

	if e.Style == TripleQuoted {
		content := strings.TrimPrefix(value, e.InlinePrefix)
		return e.Prefix + e.InlinePrefix + `"""` + normalizeBreaks(content, newline) + `"""` + e.Suffix
	}

	adjusted := e.adjustEscapes(value)
	if e.Style == DoubleQuoted || needsQuotes(adjusted) {
		return e.Prefix + `"` + escapeQuotes(adjusted) + `"` + e.Suffix
	}
	return e.Prefix + adjusted + e.Suffix
}

// adjustEscapes re-applies the escape sequences the original token used.
func (e *EntrySegment) adjustEscapes(value string) string {
	if strings.Contains(e.ValueToken, `\n`) {
		value = strings.ReplaceAll(value, "\n", `\n`)
	}
	if strings.Contains(e.ValueToken, `\r`) {
		value = strings.ReplaceAll(value, "\r", `\r`)
	}
	if strings.Contains(e.ValueToken, `\t`) {
		value = strings.ReplaceAll(value, "\t", `\t`)
	}
	return value
}

// sectionOf reports the section a segment belongs to. Raw segments belong to none.
func sectionOf(seg Segment) (string, bool) {
	switch s := seg.(type) {
	case *SectionSegment:
		return s.Name, true
	case *EntrySegment:
		return s.Section, true
	case *BareEntrySegment:
		return s.Section, true
	default:
		return "", false
	}
}
