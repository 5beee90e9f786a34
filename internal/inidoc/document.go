// Package inidoc is a format-preserving model of the INI dialect used by mod
// configuration files.
//
// A Document keeps every source line as a Segment. Its sanitized projection
// collapses triple-quoted values to placeholder tokens so a line-based
// key/value loader can read it, and rendering replays the original text for
// every value that did not change.
package inidoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Document is the parsed form of one file. It is not safe for concurrent
// mutation; callers serialize Write per file.
type Document struct {
	path            string
	segments        []Segment
	newline         string
	endsWithNewline bool
	bom             bool
}

// ParseFile reads path as UTF-8 and parses it. A missing file yields an empty
// document so that a later Write creates it.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
		}
		data = nil
	}

	doc := Parse(path, data)
	log.Debug().
		Str("file", path).
		Int("segments", len(doc.segments)).
		Str("newline", fmt.Sprintf("%q", doc.newline)).
		Msg("Parsed document")
	return doc, nil
}

// Parse builds a document from raw bytes. path is only remembered for Write.
func Parse(path string, data []byte) *Document {
	content := string(data)

	doc := &Document{path: path}
	if strings.HasPrefix(content, utf8BOM) {
		doc.bom = true
		content = content[len(utf8BOM):]
	}
	doc.newline = detectNewline(content)
	doc.endsWithNewline = content == "" || strings.HasSuffix(content, "\n")

	p := lineParser{newline: doc.newline}
	for i, line := range splitLines(content) {
		p.consume(line, i+1)
	}
	doc.segments = p.finish()
	return doc
}

// lineParser drives classification and tracks the active section.
type lineParser struct {
	newline      string
	section      string
	pending      *tripleCollector
	placeholders int
	segments     []Segment
}

func (p *lineParser) consume(line string, lineNum int) {
	if p.pending != nil {
		if p.pending.feed(line) {
			p.emit(p.pending.segment())
			p.pending = nil
		}
		return
	}

	seg, pending := classifyLine(line, lineNum, p.section, buildPlaceholder(p.placeholders), p.newline)
	if pending != nil {
		p.pending = pending
		p.placeholders++
		return
	}

	switch s := seg.(type) {
	case *SectionSegment:
		p.section = s.Name
	case *EntrySegment:
		if s.Style == TripleQuoted {
			p.placeholders++
		}
	}
	p.emit(seg)
}

func (p *lineParser) emit(seg Segment) {
	if e, ok := seg.(*EntrySegment); ok {
		e.value = loadedValue(e)
	}
	p.segments = append(p.segments, seg)
}

func (p *lineParser) finish() []Segment {
	if p.pending != nil {
		p.emit(p.pending.close())
		p.pending = nil
	}
	markShadowed(p.segments)
	return p.segments
}

// loadedValue computes what LoadStore followed by RestoreRawValues yields for e.
func loadedValue(e *EntrySegment) string {
	v := decodeValue(e.SanitizedText()[len(e.Prefix):])
	if e.Style == TripleQuoted {
		v = strings.ReplaceAll(v, e.Placeholder, e.TripleContent)
	}
	return v
}

// markShadowed flags every entry followed by another entry for the same
// section and key. The store keeps the last value, so the last entry owns it.
func markShadowed(segments []Segment) {
	type sectionKey struct{ section, key string }
	seen := make(map[sectionKey]bool)
	for i := len(segments) - 1; i >= 0; i-- {
		e, ok := segments[i].(*EntrySegment)
		if !ok {
			continue
		}
		k := sectionKey{e.Section, e.Key}
		e.shadowed = seen[k]
		seen[k] = true
	}
}

// SanitizedText is the document with triple-quoted values replaced by their
// placeholders, safe for LoadStore.
func (d *Document) SanitizedText() string {
	lines := make([]string, len(d.segments))
	for i, seg := range d.segments {
		lines[i] = seg.SanitizedText()
	}
	return joinLines(lines, d.newline, d.endsWithNewline)
}

// RestoreRawValues replaces placeholders in store with the multi-line content
// they stand for.
func (d *Document) RestoreRawValues(store *Store) {
	if store == nil {
		return
	}
	for _, seg := range d.segments {
		e, ok := seg.(*EntrySegment)
		if !ok || e.Style != TripleQuoted {
			continue
		}
		current, ok := store.Get(e.Section, e.Key)
		if ok && strings.Contains(current, e.Placeholder) {
			store.Set(e.Section, e.Key, strings.ReplaceAll(current, e.Placeholder, e.TripleContent))
		}
	}
}

func (d *Document) Path() string { return d.path }

// Newline is the line terminator detected in the source.
func (d *Document) Newline() string { return d.newline }

func (d *Document) EndsWithNewline() bool { return d.endsWithNewline }

// Segments returns the segment sequence. Callers must not modify the segments.
func (d *Document) Segments() []Segment {
	return append([]Segment(nil), d.segments...)
}

// Entry returns the owning entry for a section and key.
func (d *Document) Entry(section, key string) (*EntrySegment, bool) {
	for i := len(d.segments) - 1; i >= 0; i-- {
		if e, ok := d.segments[i].(*EntrySegment); ok && e.Section == section && e.Key == key {
			return e, true
		}
	}
	return nil, false
}
