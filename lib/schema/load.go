package schema

import (
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/scam-tools/scam/lib/util/logger"
	"gopkg.in/ini.v1"
)

var log = logger.GetSCAMLogger()

// Origin records which file a Schema was built from. Fallback is the reason
// the language-specific file was not used, or nil.
type Origin struct {
	File     string
	Fallback error
	Err      error
}

// Load builds a fresh Schema for language from src. A missing or broken
// language file falls back to BaseFile; errors never reach the caller. If
// the base file is unusable too the returned Schema is empty and Origin.Err
// says why.
func Load(src datastore.Source, language string) (*Schema, Origin) {
	file := LanguageFile(language)
	var origin Origin

	if file != BaseFile {
		s, err := loadFile(src, file)
		if err == nil {
			log.WithFields(logger.Fields{
				"at":       "schema.Load",
				"file":     file,
				"language": language,
				"entries":  s.Len(),
			}).Debug("loaded language schema")
			return s, Origin{File: file}
		}
		log.WithError(err).WithFields(logger.Fields{
			"at":       "schema.Load",
			"file":     file,
			"language": language,
		}).Debug("language schema unavailable, using base file")
		origin.Fallback = err
	}

	origin.File = BaseFile
	s, err := loadFile(src, BaseFile)
	if err != nil {
		log.WithError(err).WithField("at", "schema.Load").Warn("base schema unavailable")
		origin.Err = err
		return newSchema(), origin
	}
	return s, origin
}

// loadFile never lets a panic from the parser escape; any failure counts as
// a reason to fall back.
func loadFile(src datastore.Source, name string) (s *Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, oops.Errorf("parsing %s: %v", name, r)
		}
	}()
	if src == nil {
		return nil, oops.Errorf("no data source")
	}
	data, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

var schemaLoadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Parse reads schema lines of the form `key = value[|max][;description]`
// grouped under [Section] headers.
func Parse(data []byte) (*Schema, error) {
	f, err := ini.LoadSources(schemaLoadOptions, data)
	if err != nil {
		return nil, oops.Wrapf(err, "parsing schema")
	}
	s := newSchema()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		s.addSection(sec.Name())
		for _, key := range sec.Keys() {
			if strings.HasPrefix(key.Name(), ";") {
				continue
			}
			s.add(parseEntry(sec.Name(), key.Name(), key.Value()))
		}
	}
	return s, nil
}

func parseEntry(section, key, line string) *Entry {
	valuePart, description, _ := splitUnescaped(line, ';')
	rawPart, maxPart, hasMax := splitUnescaped(valuePart, '|')

	e := &Entry{
		Ref:         Ref{Section: section, Key: key},
		Default:     ParseValue(unescape(rawPart)),
		Description: strings.TrimSpace(unescape(description)),
	}
	if hasMax {
		if m, err := ParseNumber(unescape(maxPart)); err == nil {
			e.Max, e.HasMax = m, true
		}
	}
	return e
}

// splitUnescaped splits s at the first sep not preceded by a backslash.
func splitUnescaped(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\;`, ";", `\|`, "|", `\\`, `\`)
	return r.Replace(s)
}
