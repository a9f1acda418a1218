// Package app carries out the user-facing actions of the tool: editing the
// working values, presets, building and removing the mod archive. Each
// action keeps the preference file up to date, so the working state is
// restored by the next run.
package app

import (
	"errors"
	"os"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/scam-tools/scam/lib/editor"
	"github.com/scam-tools/scam/lib/embedded"
	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/prefs"
	"github.com/scam-tools/scam/lib/preset"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

var (
	// ErrNoChanges is returned by actions that need at least one value
	// different from its default.
	ErrNoChanges = errors.New("no values differ from the defaults")
	// ErrNoPreset is returned when saving without a selected preset.
	ErrNoPreset = errors.New("no preset selected")
	// ErrNoGameDir is returned by actions that need a valid game directory.
	ErrNoGameDir = errors.New("game directory is not set")
)

// App is one session over the configured directories. It is not safe for
// concurrent use.
type App struct {
	cfg     config.AppConfig
	src     datastore.Source
	db      *datastore.DBSource
	prefs   *prefs.Store
	presets *preset.Store

	language string
	schema   *schema.Schema
	origin   schema.Origin
	editor   *editor.Editor
	force    bool

	prefsStatus prefs.Status

	// Packer overrides the packer found through the configuration.
	Packer modbuild.Packer
}

// Open builds an App over cfg, reading default data from the data
// directory, then default_config.db, then the copy built into the binary.
func Open(cfg config.AppConfig) (*App, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	chain := datastore.Chain{datastore.DirSource{Dir: cfg.DefaultIniDir()}}
	var db *datastore.DBSource
	if util.CheckFileExists(cfg.DatabasePath()) {
		var err error
		db, err = datastore.OpenDB(cfg.DatabasePath())
		if err != nil {
			log.WithError(err).WithField("path", cfg.DatabasePath()).Warn("ignoring unreadable config database")
		} else {
			chain = append(chain, db)
		}
	}
	chain = append(chain, embedded.Source())

	a := New(cfg, chain)
	a.db = db
	return a, nil
}

// New builds an App reading default data from src and restores the last
// working state.
func New(cfg config.AppConfig, src datastore.Source) *App {
	a := &App{
		cfg:     cfg,
		src:     src,
		prefs:   prefs.NewStore(cfg.UserDataDir),
		presets: &preset.Store{Dir: cfg.PresetsDir},
	}
	rec, status := a.prefs.Load()
	a.prefsStatus = status
	a.language = rec.Language
	a.loadSchema()
	a.editor = editor.New(a.schema)
	a.restore(rec)
	return a
}

// Close releases the config database if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) loadSchema() {
	a.schema, a.origin = schema.Load(a.src, a.language)
	fields := logger.Fields{
		"at":       "app.loadSchema",
		"language": a.language,
		"file":     a.origin.File,
		"entries":  a.schema.Len(),
	}
	if a.origin.Fallback != nil {
		fields["fallback"] = a.origin.Fallback.Error()
	}
	log.WithFields(fields).Debug("loaded default values")
}

// restore applies the last working state, or else the last selected preset.
func (a *App) restore(rec prefs.Record) {
	if ls := rec.LastSettings; !ls.Empty() {
		if ls.Config != nil {
			a.editor.Load(ls.Config)
		}
		if a.editor.Sync() != ls.SyncSensitivity {
			a.editor.SetSync(ls.SyncSensitivity)
		}
		a.force = ls.ForceDefaults
		return
	}
	if rec.LastSelectedPreset == "" || !a.presets.Exists(rec.LastSelectedPreset) {
		return
	}
	m, err := a.presets.Load(rec.LastSelectedPreset)
	if err != nil {
		log.WithError(err).WithField("preset", rec.LastSelectedPreset).Warn("could not restore last preset")
		return
	}
	a.editor.Load(m)
}

// Config returns the configuration the App was opened with.
func (a *App) Config() config.AppConfig { return a.cfg }

// Source returns the default-data source.
func (a *App) Source() datastore.Source { return a.src }

// Schema returns the current default-value schema.
func (a *App) Schema() *schema.Schema { return a.schema }

// Editor returns the working values.
func (a *App) Editor() *editor.Editor { return a.editor }

// Language returns the active language code.
func (a *App) Language() string { return a.language }

// ForceDefaults reports whether builds include unchanged values.
func (a *App) ForceDefaults() bool { return a.force }

// Presets returns the preset directory store.
func (a *App) Presets() *preset.Store { return a.presets }

// persist stores the working state as the last settings. Nothing is stored
// while a field is invalid.
func (a *App) persist() error {
	if err := a.editor.Check(); err != nil {
		return err
	}
	full, err := a.editor.ChangedValues(true)
	if err != nil {
		return err
	}
	a.prefs.SetLastSettings(prefs.LastSettings{
		Config:          full,
		SyncSensitivity: a.editor.Sync(),
		ForceDefaults:   a.force,
	})
	return nil
}

// Set assigns text to ref and stores the working state. An invalid result is
// returned as *editor.ValidationError and not stored.
func (a *App) Set(ref schema.Ref, text string) error {
	if err := a.editor.Set(ref, text); err != nil {
		return err
	}
	return a.persist()
}

// Reset puts ref back to its default.
func (a *App) Reset(ref schema.Ref) error {
	if err := a.editor.Reset(ref); err != nil {
		return err
	}
	return a.persist()
}

// SetSync turns the aiming rate link on or off.
func (a *App) SetSync(on bool) error {
	a.editor.SetSync(on)
	return a.persist()
}

// SetForceDefaults makes builds include every value, changed or not.
func (a *App) SetForceDefaults(on bool) error {
	a.force = on
	return a.persist()
}

// LoadDefaults resets every value, the sync flag and force-defaults.
func (a *App) LoadDefaults() error {
	a.editor.ResetAll()
	a.editor.SetSync(false)
	a.force = false
	return a.persist()
}

// LoadBundle replaces the working values with a recommended bundle.
func (a *App) LoadBundle(b preset.Bundle) error {
	m, err := preset.LoadBundle(a.src, b)
	if err != nil {
		return err
	}
	a.editor.Load(m)
	return a.persist()
}

// LoadPreset replaces the working values with a saved preset and selects it.
func (a *App) LoadPreset(name string) error {
	m, err := a.presets.Load(name)
	if err != nil {
		return err
	}
	a.editor.Load(m)
	a.prefs.SetLastSelectedPreset(name)
	return a.persist()
}

// SelectedPreset returns the last selected preset name.
func (a *App) SelectedPreset() string {
	return a.prefs.LastSelectedPreset()
}

// savable returns the changed values, refusing invalid or unchanged state.
func (a *App) savable() (*schema.ValueMap, error) {
	if err := a.editor.Check(); err != nil {
		return nil, err
	}
	if !a.editor.HasAnyChanged() {
		return nil, ErrNoChanges
	}
	return a.editor.ChangedValues(false)
}

// NewPreset saves the changed values under name and selects it.
func (a *App) NewPreset(name string, overwrite bool) (string, error) {
	m, err := a.savable()
	if err != nil {
		return "", err
	}
	name, err = preset.CleanName(name)
	if err != nil {
		return "", err
	}
	if err := a.presets.EnsureDir(); err != nil {
		return "", oops.With("dir", a.presets.Dir).Wrapf(err, "creating presets directory")
	}
	path, err := a.presets.Save(name, m, overwrite)
	if err != nil {
		return "", err
	}
	a.prefs.SetLastSelectedPreset(name)
	a.prefs.ClearLastSettingsOnly()
	log.WithFields(logger.Fields{
		"at":     "app.NewPreset",
		"preset": name,
		"path":   path,
	}).Debug("saved preset")
	return path, nil
}

// SavePreset saves the changed values over the selected preset. overwrite
// is the caller's confirmation; without it an existing preset yields
// preset.ErrPresetExists.
func (a *App) SavePreset(overwrite bool) (string, error) {
	name := a.SelectedPreset()
	if name == "" {
		return "", ErrNoPreset
	}
	return a.NewPreset(name, overwrite)
}

// SetLanguage switches the default values to another language, keeping the
// working values.
func (a *App) SetLanguage(code string) error {
	if code == "" {
		code = schema.DefaultLanguage
	}
	a.prefs.SetLanguage(code)
	a.language = code
	a.loadSchema()
	a.editor.Rebase(a.schema)
	if err := a.persist(); err != nil {
		log.WithError(err).WithField("language", code).Debug("working values not stored after language change")
	}
	return a.origin.Err
}

// Origin reports which file the current defaults came from.
func (a *App) Origin() schema.Origin { return a.origin }

// Clear forgets the working state and the selected preset and goes back to
// the defaults.
func (a *App) Clear() {
	a.prefs.ClearLastSettings()
	a.editor.ResetAll()
	a.force = false
}

// PrefsStatus reports how the preference file was found at start.
func (a *App) PrefsStatus() prefs.Status { return a.prefsStatus }

func (a *App) modIdentity() (config.ModIdentity, error) {
	return config.LoadModIdentity(a.src)
}

func (a *App) packer() modbuild.Packer {
	if a.Packer != nil {
		return a.Packer
	}
	return modbuild.NewExecPacker(a.cfg.PackerCandidates())
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
