// Package preset reads and writes changed-value maps as INI files: named
// user presets in a presets directory and the recommended bundles shipped
// with the default data.
package preset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
	"gopkg.in/ini.v1"
)

var log = logger.GetSCAMLogger()

// ErrUnencodable is returned by Encode for a string value that would not
// read back unchanged.
var ErrUnencodable = errors.New("value cannot be stored in a preset")

var presetLoadOptions = ini.LoadOptions{
	PreserveSurroundedQuote: true,
	IgnoreContinuation:      true,
}

// Parse reads `[Section]` blocks of `key = value` lines. Values follow the
// schema inference rule; trailing `;` and `#` comments are stripped and
// surrounding quotes are kept.
func Parse(data []byte) (*schema.ValueMap, error) {
	f, err := ini.LoadSources(presetLoadOptions, data)
	if err != nil {
		return nil, oops.Wrapf(err, "parsing preset")
	}
	m := schema.NewValueMap()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		for _, key := range sec.Keys() {
			m.Set(sec.Name(), key.Name(), schema.ParseValue(key.Value()))
		}
	}
	return m, nil
}

// encodable reports whether s survives a write and Parse unchanged. The
// writer wraps values holding a newline or backtick in triple quotes, and
// Parse trims surrounding whitespace.
func encodable(s string) bool {
	return !strings.ContainsAny(s, "\r\n`") &&
		!strings.HasPrefix(s, `"""`) &&
		strings.TrimSpace(s) == s
}

// Encode renders m section by section in insertion order. Sections without
// keys are skipped.
func Encode(m *schema.ValueMap) ([]byte, error) {
	f := ini.Empty()
	for _, name := range m.Sections() {
		sec, err := f.NewSection(name)
		if err != nil {
			return nil, oops.With("section", name).Wrapf(err, "encoding preset")
		}
		for _, k := range m.Keys(name) {
			v, _ := m.Get(name, k)
			if v.Kind() == schema.KindString && !encodable(v.String()) {
				return nil, oops.With("section", name).With("key", k).
					Wrapf(ErrUnencodable, "encoding preset: %q", v.String())
			}
			if _, err := sec.NewKey(k, v.String()); err != nil {
				return nil, oops.With("section", name).With("key", k).Wrapf(err, "encoding preset")
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, oops.Wrapf(err, "encoding preset")
	}
	return buf.Bytes(), nil
}

// LoadFile reads a preset file.
func LoadFile(path string) (*schema.ValueMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "reading preset")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	log.WithFields(logger.Fields{
		"at":      "preset.LoadFile",
		"path":    path,
		"entries": m.Len(),
	}).Debug("loaded preset")
	return m, nil
}

// SaveFile writes m to path, creating parent directories.
func SaveFile(m *schema.ValueMap, path string) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := util.CreateStandardDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, util.StandardFilePermissions); err != nil {
		return oops.With("path", path).Wrapf(err, "writing preset")
	}
	log.WithFields(logger.Fields{
		"at":      "preset.SaveFile",
		"path":    path,
		"entries": m.Len(),
	}).Debug("saved preset")
	return nil
}
