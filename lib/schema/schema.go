package schema

import "fmt"

// Ref addresses one entry by section and key.
type Ref struct {
	Section string
	Key     string
}

func (r Ref) String() string {
	return r.Section + "." + r.Key
}

// Entry is one schema line: a default, an optional maximum and an optional
// description. The kind of Default decides how the entry is validated.
type Entry struct {
	Ref
	Default     Value
	Max         Value
	HasMax      bool
	Description string
}

// Schema holds every entry of a default-value source in file order. It is
// not modified after Load returns it.
type Schema struct {
	sections []string
	entries  map[string][]*Entry
	index    map[Ref]*Entry
}

func newSchema() *Schema {
	return &Schema{
		entries: make(map[string][]*Entry),
		index:   make(map[Ref]*Entry),
	}
}

func (s *Schema) add(e *Entry) {
	if existing, ok := s.index[e.Ref]; ok {
		*existing = *e
		return
	}
	if _, ok := s.entries[e.Section]; !ok {
		s.sections = append(s.sections, e.Section)
	}
	s.entries[e.Section] = append(s.entries[e.Section], e)
	s.index[e.Ref] = e
}

func (s *Schema) addSection(name string) {
	if _, ok := s.entries[name]; !ok {
		s.sections = append(s.sections, name)
		s.entries[name] = nil
	}
}

// Sections returns section names in file order.
func (s *Schema) Sections() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.sections...)
}

// Entries returns the entries of section in file order.
func (s *Schema) Entries(section string) []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, 0, len(s.entries[section]))
	for _, e := range s.entries[section] {
		out = append(out, *e)
	}
	return out
}

// All returns every entry, section by section.
func (s *Schema) All() []Entry {
	var out []Entry
	for _, sec := range s.Sections() {
		out = append(out, s.Entries(sec)...)
	}
	return out
}

// Lookup returns the entry for ref.
func (s *Schema) Lookup(ref Ref) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.index[ref]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Default returns the default value for ref.
func (s *Schema) Default(ref Ref) (Value, bool) {
	e, ok := s.Lookup(ref)
	return e.Default, ok
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.index)
}

// Defaults returns every default as a ValueMap.
func (s *Schema) Defaults() *ValueMap {
	m := NewValueMap()
	for _, e := range s.All() {
		m.Set(e.Section, e.Key, e.Default)
	}
	return m
}

// Describe renders the default and maximum for display.
func (e Entry) Describe() string {
	if e.HasMax {
		return fmt.Sprintf("default %s, max %s", e.Default, e.Max)
	}
	return "default " + e.Default.String()
}
