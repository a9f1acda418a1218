package app

import (
	"github.com/samber/lo"
	"github.com/scam-tools/scam/lib/gamedir"
	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/schema"
)

// Report summarises the session for display.
type Report struct {
	Language       string
	DefaultsFile   string
	DefaultsReason error

	GameDir      string
	ModsDir      string
	Installed    []string
	Incompatible []string

	SelectedPreset string
	Presets        []string

	Changed       bool
	Invalid       []string
	Sync          bool
	ForceDefaults bool

	PackerErr error
}

// Status collects a Report.
func (a *App) Status() Report {
	r := Report{
		Language:       a.language,
		DefaultsFile:   a.origin.File,
		DefaultsReason: a.origin.Fallback,
		SelectedPreset: a.SelectedPreset(),
		Changed:        a.editor.HasAnyChanged(),
		Sync:           a.editor.Sync(),
		ForceDefaults:  a.force,
	}
	if a.origin.Err != nil {
		r.DefaultsReason = a.origin.Err
	}
	_, r.Invalid = a.editor.HasAnyInvalid()
	r.Presets, _ = a.presets.List()
	if game, ok := a.GameDir(); ok {
		r.GameDir = game
		r.ModsDir = gamedir.ModsDir(game)
		r.Installed = a.Installed()
		r.Incompatible = modbuild.FindIncompatible(r.ModsDir)
	}
	r.PackerErr = a.packer().Check()
	return r
}

// SectionsChanged returns the sections holding a change, in schema order.
func (a *App) SectionsChanged() []string {
	var out []string
	for _, s := range a.schema.Sections() {
		if a.editor.SectionChanged(s) {
			out = append(out, s)
		}
	}
	if a.editor.SectionChanged(schema.SectionAiming) && !lo.Contains(out, schema.SectionAiming) {
		out = append(out, schema.SectionAiming)
	}
	return out
}
