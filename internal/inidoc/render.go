package inidoc

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Render replays the document against the current values of store. Untouched
// entries keep their source text byte for byte; changed entries are
// reformatted in the style they were written in; deleted entries disappear;
// keys the document has never seen are appended to their section, or to a new
// section at the end. store is not modified.
func (d *Document) Render(store *Store) []byte {
	if store == nil {
		store = NewStore()
	}
	snap := store.Snapshot()

	var out []string
	hasGlobal := d.hasSectionBearing("")
	globalFlushed := false
	last := d.lastSegmentOf()

	for i, seg := range d.segments {
		if _, ok := seg.(*SectionSegment); ok && !hasGlobal && !globalFlushed {
			// New keys outside any section must precede the first header.
			out = append(out, d.pendingLines("", snap)...)
			globalFlushed = true
		}

		if text, ok := seg.render(snap, d.newline); ok {
			out = append(out, text)
		}

		section, ok := sectionOf(seg)
		if !ok {
			continue
		}
		if last[section] == i && snap.Pending(section) {
			out = append(out, d.pendingLines(section, snap)...)
		}
	}

	for _, name := range snap.Sections() {
		pending := snap.Drain(name)
		if len(pending) == 0 {
			continue
		}
		if name != "" {
			if len(out) > 0 {
				out = append(out, "")
			}
			out = append(out, "["+name+"]")
		}
		for _, kv := range pending {
			out = append(out, defaultEntryLine(kv.Key, kv.Value, d.newline))
		}
	}

	content := joinLines(out, d.newline, d.endsWithNewline)
	if d.bom {
		content = utf8BOM + content
	}
	return []byte(content)
}

// Write renders store to the document's file in one atomic replace and then
// re-parses the written file, so the next edit cycle diffs against what is on
// disk. On failure the document is left unchanged.
func (d *Document) Write(store *Store) error {
	if d.path == "" {
		return fmt.Errorf("%w: document has no path", ErrIO)
	}

	mode := defaultFileMode
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, d.path, err)
	}

	data := d.Render(store)
	if err := writeAtomic(d.path, data, mode); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIO, d.path, err)
	}

	fresh, err := ParseFile(d.path)
	if err != nil {
		return err
	}
	*d = *fresh

	log.Debug().Str("file", d.path).Int("bytes", len(data)).Msg("Stored document")
	return nil
}

// lastSegmentOf maps each section to the index of its final header or entry,
// so new keys land after the last block of a repeated section.
func (d *Document) lastSegmentOf() map[string]int {
	last := make(map[string]int)
	for i, seg := range d.segments {
		if name, ok := sectionOf(seg); ok {
			last[name] = i
		}
	}
	return last
}

func (d *Document) hasSectionBearing(section string) bool {
	for _, seg := range d.segments {
		switch s := seg.(type) {
		case *EntrySegment:
			if s.Section == section {
				return true
			}
		case *BareEntrySegment:
			if s.Section == section {
				return true
			}
		}
	}
	return false
}

func (d *Document) pendingLines(section string, snap *Snapshot) []string {
	pending := snap.Drain(section)
	lines := make([]string, 0, len(pending))
	for _, kv := range pending {
		lines = append(lines, defaultEntryLine(kv.Key, kv.Value, d.newline))
	}
	return lines
}
