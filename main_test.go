package main

import (
	"bytes"
	"testing"

	"github.com/scam-tools/scam/lib/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignment(t *testing.T) {
	ref, value, err := parseAssignment("MovementParams.WalkSpeed= 2.0")
	require.NoError(t, err)
	assert.Equal(t, schema.Ref{Section: "MovementParams", Key: "WalkSpeed"}, ref)
	assert.Equal(t, " 2.0", value)

	for _, bad := range []string{"WalkSpeed=1", "MovementParams.WalkSpeed", ".x=1", "A.=1"} {
		_, _, err := parseAssignment(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseOnOff(t *testing.T) {
	on, err := parseOnOff("ON")
	require.NoError(t, err)
	assert.True(t, on)
	off, err := parseOnOff("false")
	require.NoError(t, err)
	assert.False(t, off)
	_, err = parseOnOff("maybe")
	assert.Error(t, err)
}

func TestRenderValues(t *testing.T) {
	m := schema.NewValueMap()
	m.Set(schema.SectionMovement, "WalkSpeed", schema.Float(2))
	m.Set(schema.SectionAiming, schema.KeySyncTurnRate, schema.Bool(true))

	text, err := renderValues(m, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "WalkSpeed = 2.0")
	assert.NotContains(t, text, "SyncTurnRate")

	ini, err := renderValues(m, "ini")
	require.NoError(t, err)
	assert.Contains(t, ini, "[Aiming]")

	js, err := renderValues(m, "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"MovementParams":{"WalkSpeed":2.0},"Aiming":{"SyncTurnRate":true}}`, js)

	yml, err := renderValues(m, "yaml")
	require.NoError(t, err)
	assert.Contains(t, yml, "WalkSpeed: 2.0")

	_, err = renderValues(m, "xml")
	assert.Error(t, err)
}

func TestSetThenDiff(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dirs := []string{
		"--data-dir", t.TempDir(),
		"--user-data-dir", t.TempDir(),
		"--presets-dir", t.TempDir(),
	}
	run := func(args ...string) string {
		var out bytes.Buffer
		RootCmd.SetOut(&out)
		RootCmd.SetArgs(append(append([]string{}, dirs...), args...))
		require.NoError(t, RootCmd.Execute())
		return out.String()
	}

	run("set", "MovementParams.WalkSpeed=2.0")
	out := run("diff", "-o", "ini")
	assert.Contains(t, out, "[MovementParams]")
	assert.Contains(t, out, "WalkSpeed")
	assert.Contains(t, out, "2.0")
	assert.NotContains(t, out, "RunSpeed")
}
