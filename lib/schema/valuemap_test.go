package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleMap() *ValueMap {
	m := NewValueMap()
	m.Set("Zeta", "b", Int(2))
	m.Set("Zeta", "a", Float(20))
	m.Set("Alpha", "on", Bool(true))
	m.Set("Alpha", "name", String(`quote " and ; semi`))
	return m
}

func TestValueMapOrder(t *testing.T) {
	m := sampleMap()
	assert.Equal(t, []string{"Zeta", "Alpha"}, m.Sections())
	assert.Equal(t, []string{"b", "a"}, m.Keys("Zeta"))
	assert.Equal(t, 4, m.Len())

	m.Set("Zeta", "b", Int(3))
	assert.Equal(t, []string{"b", "a"}, m.Keys("Zeta"), "overwrite keeps position")
}

func TestValueMapDeleteDropsEmptySection(t *testing.T) {
	m := sampleMap()
	m.Delete("Zeta", "a")
	m.Delete("Zeta", "b")
	assert.False(t, m.HasSection("Zeta"))
	assert.Equal(t, []string{"Alpha"}, m.Sections())

	m.Delete("Nope", "x")
	m.DeleteSection("Alpha")
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Sections())
}

func TestValueMapCloneIsIndependent(t *testing.T) {
	m := sampleMap()
	c := m.Clone()
	c.Set("Zeta", "b", Int(99))
	c.DeleteSection("Alpha")

	v, _ := m.Get("Zeta", "b")
	assert.True(t, Int(2).Equal(v))
	assert.True(t, m.HasSection("Alpha"))
	assert.False(t, m.Equal(c))
	assert.True(t, m.Equal(m.Clone()))
}

func TestValueMapJSON(t *testing.T) {
	m := sampleMap()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":{"b":2,"a":20.0},"Alpha":{"on":true,"name":"quote \" and ; semi"}}`, string(data))

	back := NewValueMap()
	require.NoError(t, json.Unmarshal(data, back))
	assert.True(t, m.Equal(back))
	assert.Equal(t, m.Sections(), back.Sections())

	v, _ := back.Get("Zeta", "a")
	assert.Equal(t, KindFloat, v.Kind(), "20.0 must come back as a float")
}

func TestValueMapUnmarshalRejectsNesting(t *testing.T) {
	m := NewValueMap()
	assert.Error(t, json.Unmarshal([]byte(`{"A":{"k":[1,2]}}`), m))
	assert.Error(t, json.Unmarshal([]byte(`{"A":1}`), m))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), m))
}

func TestValueMapYAML(t *testing.T) {
	data, err := yaml.Marshal(sampleMap())
	require.NoError(t, err)

	var back yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &back))
	root := back.Content[0]
	require.Len(t, root.Content, 4)
	assert.Equal(t, "Zeta", root.Content[0].Value)
	assert.Equal(t, "Alpha", root.Content[2].Value)

	zeta := root.Content[1]
	assert.Equal(t, "b", zeta.Content[0].Value)
	assert.Equal(t, "!!int", zeta.Content[1].Tag)
	assert.Equal(t, "20.0", zeta.Content[3].Value)
	assert.Equal(t, "!!float", zeta.Content[3].Tag)
}
