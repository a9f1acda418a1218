// Package modcfg renders a changed-value map as the game's struct-based
// config text.
package modcfg

import (
	"strings"

	"github.com/scam-tools/scam/lib/schema"
)

const (
	// Header opens the player prototype override.
	Header = "PlayerCustom : struct.begin {refurl=../../ObjPrototypes.cfg; refkey=Player}"

	blockIndent = "   "
	keyIndent   = "      "
	blockBegin  = " : struct.begin"
	blockEnd    = "struct.end"
)

// Attribution is appended after the closing marker.
var Attribution = []string{
	"// Generated by SCAM (Stalker Character Adjustment Manager) by v3fish",
	"// Personal use only - redistribution requires author permission",
}

// Generate renders m. StaminaPerAction.SpendStaminaInSafeZone is written at
// the top level before any block, and a section left without keys is not
// written at all. The output depends only on m, which is not modified.
func Generate(m *schema.ValueMap) string {
	var b strings.Builder
	line := func(parts ...string) {
		for _, p := range parts {
			b.WriteString(p)
		}
		b.WriteByte('\n')
	}

	line(Header)
	safeZone, hasSafeZone := m.Get(schema.SectionStamina, schema.KeySafeZoneStamina)
	if hasSafeZone {
		line(schema.KeySafeZoneStamina, " = ", safeZone.String())
	}

	for _, section := range m.Sections() {
		keys := m.Keys(section)
		if section == schema.SectionStamina && hasSafeZone {
			keys = without(keys, schema.KeySafeZoneStamina)
		}
		if len(keys) == 0 {
			continue
		}
		line(blockIndent, section, blockBegin)
		for _, key := range keys {
			v, _ := m.Get(section, key)
			line(keyIndent, key, " = ", v.String())
		}
		line(blockIndent, blockEnd)
	}

	line(blockEnd)
	line()
	for _, a := range Attribution {
		line(a)
	}
	return b.String()
}

func without(keys []string, drop string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != drop {
			out = append(out, k)
		}
	}
	return out
}
