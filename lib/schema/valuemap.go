package schema

import (
	"bytes"
	"encoding/json"

	"github.com/samber/oops"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// ValueMap is an insertion-ordered section -> key -> Value mapping. It is the
// changed-value map handed to presets, preferences and the content generator.
// Sections left without keys are never reported.
type ValueMap struct {
	order    []string
	sections map[string]*orderedKeys
}

type orderedKeys struct {
	keys   []string
	values map[string]Value
}

// NewValueMap returns an empty map.
func NewValueMap() *ValueMap {
	return &ValueMap{sections: make(map[string]*orderedKeys)}
}

// Set stores v under section/key, appending new sections and keys at the end.
func (m *ValueMap) Set(section, key string, v Value) {
	if m.sections == nil {
		m.sections = make(map[string]*orderedKeys)
	}
	sec, ok := m.sections[section]
	if !ok {
		sec = &orderedKeys{values: make(map[string]Value)}
		m.sections[section] = sec
		m.order = append(m.order, section)
	}
	if _, exists := sec.values[key]; !exists {
		sec.keys = append(sec.keys, key)
	}
	sec.values[key] = v
}

// Get returns the value stored under section/key.
func (m *ValueMap) Get(section, key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	sec, ok := m.sections[section]
	if !ok {
		return Value{}, false
	}
	v, ok := sec.values[key]
	return v, ok
}

// Delete removes section/key. A section losing its last key is dropped.
func (m *ValueMap) Delete(section, key string) {
	if m == nil {
		return
	}
	sec, ok := m.sections[section]
	if !ok {
		return
	}
	if _, ok := sec.values[key]; !ok {
		return
	}
	delete(sec.values, key)
	for i, k := range sec.keys {
		if k == key {
			sec.keys = append(sec.keys[:i], sec.keys[i+1:]...)
			break
		}
	}
	if len(sec.keys) == 0 {
		m.DeleteSection(section)
	}
}

// DeleteSection removes a whole section.
func (m *ValueMap) DeleteSection(section string) {
	if m == nil {
		return
	}
	if _, ok := m.sections[section]; !ok {
		return
	}
	delete(m.sections, section)
	for i, s := range m.order {
		if s == section {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// HasSection reports whether section holds at least one key.
func (m *ValueMap) HasSection(section string) bool {
	if m == nil {
		return false
	}
	sec, ok := m.sections[section]
	return ok && len(sec.keys) > 0
}

// Sections returns the non-empty sections in insertion order.
func (m *ValueMap) Sections() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.order))
	for _, s := range m.order {
		if len(m.sections[s].keys) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Keys returns the keys of section in insertion order.
func (m *ValueMap) Keys(section string) []string {
	if m == nil {
		return nil
	}
	sec, ok := m.sections[section]
	if !ok {
		return nil
	}
	return append([]string(nil), sec.keys...)
}

// Len returns the total number of keys across all sections.
func (m *ValueMap) Len() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, sec := range m.sections {
		n += len(sec.keys)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *ValueMap) Clone() *ValueMap {
	out := NewValueMap()
	if m == nil {
		return out
	}
	for _, s := range m.Sections() {
		for _, k := range m.Keys(s) {
			v, _ := m.Get(s, k)
			out.Set(s, k, v)
		}
	}
	return out
}

// Equal reports whether m and o hold the same entries, ignoring order.
func (m *ValueMap) Equal(o *ValueMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	for _, s := range m.Sections() {
		for _, k := range m.Keys(s) {
			a, _ := m.Get(s, k)
			b, ok := o.Get(s, k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes sections and keys in order. Numbers are emitted in
// canonical form so floats keep their decimal point.
func (m *ValueMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range m.Sections() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(s)
		buf.Write(name)
		buf.WriteString(":{")
		for j, k := range m.Keys(s) {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			v, _ := m.Get(s, k)
			if v.Kind() == KindString {
				str, _ := json.Marshal(v.String())
				buf.Write(str)
			} else {
				buf.WriteString(v.String())
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a section -> key -> scalar object, keeping document
// order. Numbers follow the same '.' rule as the INI sources.
func (m *ValueMap) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return oops.Errorf("invalid value map JSON")
	}
	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		*m = *NewValueMap()
		return nil
	}
	if !root.IsObject() {
		return oops.Errorf("value map must be a JSON object")
	}
	out := NewValueMap()
	var err error
	root.ForEach(func(section, keys gjson.Result) bool {
		if !keys.IsObject() {
			err = oops.Errorf("section %q must be an object", section.String())
			return false
		}
		keys.ForEach(func(key, val gjson.Result) bool {
			switch val.Type {
			case gjson.True, gjson.False:
				out.Set(section.String(), key.String(), Bool(val.Bool()))
			case gjson.Number:
				n, perr := ParseNumber(val.Raw)
				if perr != nil {
					out.Set(section.String(), key.String(), Float(val.Float()))
				} else {
					out.Set(section.String(), key.String(), n)
				}
			case gjson.String:
				out.Set(section.String(), key.String(), String(val.String()))
			default:
				err = oops.Errorf("unsupported value for %s.%s", section.String(), key.String())
				return false
			}
			return true
		})
		return err == nil
	})
	if err != nil {
		return err
	}
	*m = *out
	return nil
}

// MarshalYAML renders an ordered mapping with typed scalars.
func (m *ValueMap) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range m.Sections() {
		sec := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range m.Keys(s) {
			v, _ := m.Get(s, k)
			sec.Content = append(sec.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: k},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlTag(v.Kind()), Value: v.String()},
			)
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: s}, sec)
	}
	return root, nil
}

func yamlTag(k Kind) string {
	switch k {
	case KindBool:
		return "!!bool"
	case KindInt:
		return "!!int"
	case KindFloat:
		return "!!float"
	default:
		return "!!str"
	}
}
