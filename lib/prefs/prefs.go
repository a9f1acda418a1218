// Package prefs persists the small preference document kept between runs:
// the last selected preset, the last working settings and the language.
//
// Every setter rewrites the document in place, so fields this package does
// not know about survive.
package prefs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util/logger"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var log = logger.GetSCAMLogger()

// FileName is the preference file name inside the user data directory.
const FileName = "app_preferences.json"

const (
	keyLastPreset   = "last_selected_preset"
	keyLastSettings = "last_settings"
	keyLanguage     = "language"
)

// Status says where a loaded Record came from.
type Status int

const (
	StatusLoaded Status = iota
	StatusMissing
	StatusCorrupt
	StatusUnreadable
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "unreadable"
	}
}

// LastSettings is the working state restored on the next start.
type LastSettings struct {
	Config          *schema.ValueMap `json:"config"`
	SyncSensitivity bool             `json:"sync_sensitivity"`
	ForceDefaults   bool             `json:"force_defaults"`
}

// Empty reports whether s carries no values.
func (s LastSettings) Empty() bool {
	return s.Config.Len() == 0 && !s.SyncSensitivity && !s.ForceDefaults
}

// Record is the whole preference document.
type Record struct {
	LastSelectedPreset string
	LastSettings       LastSettings
	Language           string
}

// Store reads and writes the preference file at Path.
type Store struct {
	Path string
}

// NewStore returns a Store for FileName inside dir.
func NewStore(dir string) *Store {
	return &Store{Path: filepath.Join(dir, FileName)}
}

// Load returns the stored Record. A missing, unreadable or corrupt file
// yields an empty Record with Language set to schema.DefaultLanguage; the
// Status tells the cases apart.
func (s *Store) Load() (Record, Status) {
	doc, status := s.read()
	return decode(doc), status
}

func (s *Store) read() ([]byte, Status) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, StatusMissing
		}
		log.WithError(err).WithFields(logger.Fields{
			"at":   "prefs.Store.read",
			"path": s.Path,
		}).Warn("preferences unreadable")
		return nil, StatusUnreadable
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		log.WithFields(logger.Fields{
			"at":   "prefs.Store.read",
			"path": s.Path,
		}).Warn("preferences file is not a JSON object, ignoring it")
		return nil, StatusCorrupt
	}
	return data, StatusLoaded
}

func decode(doc []byte) Record {
	rec := Record{Language: schema.DefaultLanguage}
	if doc == nil {
		return rec
	}
	root := gjson.ParseBytes(doc)
	rec.LastSelectedPreset = root.Get(keyLastPreset).String()
	if lang := root.Get(keyLanguage).String(); lang != "" {
		rec.Language = lang
	}

	last := root.Get(keyLastSettings)
	if !last.IsObject() {
		return rec
	}
	rec.LastSettings.SyncSensitivity = last.Get("sync_sensitivity").Bool()
	rec.LastSettings.ForceDefaults = last.Get("force_defaults").Bool()
	if cfg := last.Get("config"); cfg.Exists() {
		m := schema.NewValueMap()
		if err := m.UnmarshalJSON([]byte(cfg.Raw)); err != nil {
			log.WithError(err).WithField("at", "prefs.decode").Warn("discarding unreadable last settings")
		} else {
			rec.LastSettings.Config = m
		}
	}
	return rec
}

// update applies edit to the raw document and writes it back.
func (s *Store) update(edit func(doc []byte) ([]byte, error)) error {
	doc, _ := s.read()
	if doc == nil {
		doc = []byte("{}")
	}
	doc, err := edit(doc)
	if err != nil {
		return oops.With("path", s.Path).Wrapf(err, "updating preferences")
	}
	return s.write(doc)
}

func (s *Store) write(doc []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return oops.With("path", s.Path).Wrapf(err, "creating preferences directory")
	}
	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  "})
	if err := os.WriteFile(s.Path, out, 0o644); err != nil {
		return oops.With("path", s.Path).Wrapf(err, "writing preferences")
	}
	return nil
}

// Save writes every field of rec.
func (s *Store) Save(rec Record) error {
	settings, err := encodeSettings(rec.LastSettings)
	if err != nil {
		return err
	}
	return s.update(func(doc []byte) ([]byte, error) {
		doc, err := sjson.SetBytes(doc, keyLastPreset, rec.LastSelectedPreset)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetRawBytes(doc, keyLastSettings, settings)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, keyLanguage, rec.Language)
	})
}

func encodeSettings(ls LastSettings) ([]byte, error) {
	if ls.Empty() {
		return []byte("{}"), nil
	}
	cfg := ls.Config
	if cfg == nil {
		cfg = schema.NewValueMap()
	}
	raw, err := cfg.MarshalJSON()
	if err != nil {
		return nil, oops.Wrapf(err, "encoding last settings")
	}
	out := []byte("{}")
	if out, err = sjson.SetRawBytes(out, "config", raw); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "sync_sensitivity", ls.SyncSensitivity); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "force_defaults", ls.ForceDefaults)
}

func (s *Store) logFailure(at string, err error) {
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{
			"at":   at,
			"path": s.Path,
		}).Warn("failed to save preferences")
	}
}

// LastSelectedPreset returns the remembered preset name, or "".
func (s *Store) LastSelectedPreset() string {
	rec, _ := s.Load()
	return rec.LastSelectedPreset
}

// SetLastSelectedPreset remembers name. Failures are logged.
func (s *Store) SetLastSelectedPreset(name string) {
	s.logFailure("prefs.Store.SetLastSelectedPreset", s.update(func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, keyLastPreset, name)
	}))
}

// LastSettings returns the remembered working state. ok is false when none
// is stored.
func (s *Store) LastSettings() (LastSettings, bool) {
	rec, _ := s.Load()
	return rec.LastSettings, !rec.LastSettings.Empty()
}

// SetLastSettings remembers ls. Failures are logged.
func (s *Store) SetLastSettings(ls LastSettings) {
	settings, err := encodeSettings(ls)
	if err != nil {
		s.logFailure("prefs.Store.SetLastSettings", err)
		return
	}
	s.logFailure("prefs.Store.SetLastSettings", s.update(func(doc []byte) ([]byte, error) {
		return sjson.SetRawBytes(doc, keyLastSettings, settings)
	}))
}

// ClearLastSettings forgets both the working state and the last preset.
func (s *Store) ClearLastSettings() {
	s.logFailure("prefs.Store.ClearLastSettings", s.update(func(doc []byte) ([]byte, error) {
		doc, err := sjson.SetRawBytes(doc, keyLastSettings, []byte("{}"))
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, keyLastPreset, "")
	}))
}

// ClearLastSettingsOnly forgets the working state and keeps the last preset.
func (s *Store) ClearLastSettingsOnly() {
	s.logFailure("prefs.Store.ClearLastSettingsOnly", s.update(func(doc []byte) ([]byte, error) {
		return sjson.SetRawBytes(doc, keyLastSettings, []byte("{}"))
	}))
}

// Language returns the stored language code, schema.DefaultLanguage if unset.
func (s *Store) Language() string {
	rec, _ := s.Load()
	return rec.Language
}

// SetLanguage stores the language code. Failures are logged.
func (s *Store) SetLanguage(code string) {
	s.logFailure("prefs.Store.SetLanguage", s.update(func(doc []byte) ([]byte, error) {
		return sjson.SetBytes(doc, keyLanguage, code)
	}))
}
