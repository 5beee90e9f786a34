package inidoc

import "strings"

// Issue describes a raw line that looks like it was meant to be an entry.
type Issue struct {
	Line   int
	Text   string
	Reason string
}

// Suspicious lists raw lines that are neither blank nor comments. Such lines
// are preserved verbatim but carry no value, which usually means a hand-edit
// went wrong.
func (d *Document) Suspicious() []Issue {
	var issues []Issue
	for _, seg := range d.segments {
		raw, ok := seg.(*RawSegment)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(raw.Text)
		if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#' {
			continue
		}

		reason := "no delimiter"
		if findDelimiter(raw.Text) >= 0 {
			reason = "empty key"
		}
		issues = append(issues, Issue{Line: raw.Line, Text: raw.Text, Reason: reason})
	}
	return issues
}

// Stats counts segments by kind.
type Stats struct {
	Raw          int
	Sections     int
	Entries      int
	BareEntries  int
	TripleQuoted int
}

func (d *Document) Stats() Stats {
	var st Stats
	for _, seg := range d.segments {
		switch s := seg.(type) {
		case *RawSegment:
			st.Raw++
		case *SectionSegment:
			st.Sections++
		case *BareEntrySegment:
			st.BareEntries++
		case *EntrySegment:
			st.Entries++
			if s.Style == TripleQuoted {
				st.TripleQuoted++
			}
		}
	}
	return st
}
