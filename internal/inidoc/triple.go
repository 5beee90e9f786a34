package inidoc

import (
	"fmt"
	"strings"
)

type collectorState int

const (
	stateCollecting collectorState = iota
	stateClosed
)

// tripleCollector accumulates the continuation lines of a triple-quoted value
// until a closing """ is seen or the input ends.
type tripleCollector struct {
	section      string
	key          string
	prefix       string
	inlinePrefix string
	placeholder  string
	newline      string

	literal strings.Builder
	content strings.Builder
	suffix  string
	state   collectorState
}

func newTripleCollector(section, key, prefix, inlinePrefix, placeholder, newline, firstLine string) *tripleCollector {
	c := &tripleCollector{
		section:      section,
		key:          key,
		prefix:       prefix,
		inlinePrefix: inlinePrefix,
		placeholder:  placeholder,
		newline:      newline,
	}
	c.literal.WriteString(firstLine)
	return c
}

// feed consumes the next physical line and reports whether the value is closed.
func (c *tripleCollector) feed(line string) bool {
	if c.state == stateClosed {
		return true
	}

	c.literal.WriteString(c.newline)
	c.literal.WriteString(line)
	c.content.WriteString(c.newline)

	if idx := strings.Index(line, tripleQuote); idx >= 0 {
		c.content.WriteString(line[:idx])
		c.suffix = line[idx+len(tripleQuote):]
		c.state = stateClosed
		return true
	}

	c.content.WriteString(line)
	return false
}

// close forces the collector closed at end of input; whatever was collected
// becomes the content.
func (c *tripleCollector) close() *EntrySegment {
	c.state = stateClosed
	return c.segment()
}

func (c *tripleCollector) segment() *EntrySegment {
	return &EntrySegment{
		Section:       c.section,
		Key:           c.key,
		Prefix:        c.prefix,
		Suffix:        c.suffix,
		Style:         TripleQuoted,
		Placeholder:   c.placeholder,
		LiteralText:   c.literal.String(),
		TripleContent: c.content.String(),
		InlinePrefix:  c.inlinePrefix,
	}
}

func buildPlaceholder(index int) string {
	return fmt.Sprintf("__RW_RAW_%d__", index)
}
