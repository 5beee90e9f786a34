package inidoc

import "strings"

// Store is an ordered section -> key -> value mapping. Sections repeated in the
// source merge into one; a repeated key keeps its first position and its last
// value.
type Store struct {
	sections []*Section
	index    map[string]*Section
}

// Section is one logical section of a Store.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]*Section)}
}

// LoadStore reads sanitized document text the way a conventional INI loader
// does. Lines it cannot read are skipped.
func LoadStore(text string) *Store {
	store := NewStore()
	current := ""

	for _, line := range splitLines(strings.TrimPrefix(text, utf8BOM)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#' {
			continue
		}

		if trimmed[0] == '[' && strings.Contains(trimmed, "]") {
			current = strings.TrimSpace(trimmed[1:strings.IndexByte(trimmed, ']')])
			store.AddSection(current)
			continue
		}

		delim := findDelimiter(line)
		if delim < 0 {
			if looksLikeBareKey(trimmed) {
				store.Set(current, trimmed, "")
			}
			continue
		}

		key := strings.TrimSpace(line[:delim])
		if key == "" {
			continue
		}
		store.Set(current, key, decodeValue(line[delim+1:]))
	}

	return store
}

// Section returns the named section, or nil if it does not exist.
func (s *Store) Section(name string) *Section {
	return s.index[name]
}

// AddSection returns the named section, creating it at the end if needed.
func (s *Store) AddSection(name string) *Section {
	if sec, ok := s.index[name]; ok {
		return sec
	}
	sec := &Section{name: name, values: make(map[string]string)}
	s.sections = append(s.sections, sec)
	s.index[name] = sec
	return sec
}

// Sections lists section names in first-seen order.
func (s *Store) Sections() []string {
	names := make([]string, len(s.sections))
	for i, sec := range s.sections {
		names[i] = sec.name
	}
	return names
}

func (s *Store) Get(section, key string) (string, bool) {
	sec := s.index[section]
	if sec == nil {
		return "", false
	}
	return sec.Get(key)
}

func (s *Store) Set(section, key, value string) {
	s.AddSection(section).Set(key, value)
}

// Delete removes a key and reports whether it existed.
func (s *Store) Delete(section, key string) bool {
	sec := s.index[section]
	if sec == nil {
		return false
	}
	return sec.Delete(key)
}

// Len counts keys across all sections.
func (s *Store) Len() int {
	n := 0
	for _, sec := range s.sections {
		n += len(sec.keys)
	}
	return n
}

// Snapshot copies the current values for a render pass.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{sections: make(map[string]*pendingSection, len(s.sections))}
	for _, sec := range s.sections {
		ps := &pendingSection{
			keys:   append([]string(nil), sec.keys...),
			values: make(map[string]string, len(sec.values)),
		}
		for k, v := range sec.values {
			ps.values[k] = v
		}
		snap.order = append(snap.order, sec.name)
		snap.sections[sec.name] = ps
	}
	return snap
}

func (sec *Section) Name() string { return sec.name }

// Keys lists keys in insertion order.
func (sec *Section) Keys() []string {
	return append([]string(nil), sec.keys...)
}

func (sec *Section) Get(key string) (string, bool) {
	v, ok := sec.values[key]
	return v, ok
}

func (sec *Section) Has(key string) bool {
	_, ok := sec.values[key]
	return ok
}

func (sec *Section) Set(key, value string) {
	if _, ok := sec.values[key]; !ok {
		sec.keys = append(sec.keys, key)
	}
	sec.values[key] = value
}

func (sec *Section) Delete(key string) bool {
	if _, ok := sec.values[key]; !ok {
		return false
	}
	delete(sec.values, key)
	for i, k := range sec.keys {
		if k == key {
			sec.keys = append(sec.keys[:i], sec.keys[i+1:]...)
			break
		}
	}
	return true
}

// KeyValue is one pending snapshot entry.
type KeyValue struct {
	Key   string
	Value string
}

// Snapshot is a destructive view of a Store: rendering pops every key it
// writes, so whatever remains afterwards is new.
type Snapshot struct {
	order    []string
	sections map[string]*pendingSection
}

type pendingSection struct {
	keys   []string
	values map[string]string
}

// Pop removes and returns a value.
func (s *Snapshot) Pop(section, key string) (string, bool) {
	ps := s.sections[section]
	if ps == nil {
		return "", false
	}
	v, ok := ps.values[key]
	if ok {
		delete(ps.values, key)
	}
	return v, ok
}

// Peek returns a value without consuming it.
func (s *Snapshot) Peek(section, key string) (string, bool) {
	ps := s.sections[section]
	if ps == nil {
		return "", false
	}
	v, ok := ps.values[key]
	return v, ok
}

// Pending reports whether a section still has unconsumed keys.
func (s *Snapshot) Pending(section string) bool {
	ps := s.sections[section]
	return ps != nil && len(ps.values) > 0
}

// Drain removes and returns the remaining entries of a section in store order.
func (s *Snapshot) Drain(section string) []KeyValue {
	ps := s.sections[section]
	if ps == nil || len(ps.values) == 0 {
		return nil
	}
	out := make([]KeyValue, 0, len(ps.values))
	for _, k := range ps.keys {
		if v, ok := ps.values[k]; ok {
			out = append(out, KeyValue{Key: k, Value: v})
			delete(ps.values, k)
		}
	}
	return out
}

// Sections lists section names in store order.
func (s *Snapshot) Sections() []string {
	return append([]string(nil), s.order...)
}
