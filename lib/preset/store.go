package preset

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util"
)

// Ext is the preset file extension.
const Ext = ".ini"

var (
	ErrEmptyName    = errors.New("preset name is empty")
	ErrInvalidName  = errors.New("preset name must not contain path separators")
	ErrPresetExists = errors.New("preset already exists")
	ErrNotFound     = errors.New("preset not found")
)

// Store manages the named presets inside Dir.
type Store struct {
	Dir string
}

// CleanName trims whitespace and a trailing Ext and rejects names that
// would escape Dir.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, Ext)
	if name == "" {
		return "", ErrEmptyName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || strings.Contains(name, "..") {
		return "", oops.With("name", name).Wrap(ErrInvalidName)
	}
	return name, nil
}

// EnsureDir creates Dir if needed.
func (s *Store) EnsureDir() error {
	return util.CreateStandardDirectory(s.Dir)
}

// Path returns the file path of preset name.
func (s *Store) Path(name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return util.SanitizePath(s.Dir, name+Ext)
}

// List returns the preset names in Dir, sorted. A missing Dir has no
// presets.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, oops.With("dir", s.Dir).Wrapf(err, "listing presets")
	}
	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			return "", false
		}
		return strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), true
	})
	sort.Strings(names)
	return names, nil
}

// Exists reports whether preset name is stored.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads preset name.
func (s *Store) Load(name string) (*schema.ValueMap, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, oops.With("name", name).Wrap(ErrNotFound)
	}
	return LoadFile(path)
}

// Save writes m as preset name. An existing preset is only replaced when
// overwrite is set; otherwise ErrPresetExists is returned.
func (s *Store) Save(name string, m *schema.ValueMap, overwrite bool) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", oops.With("name", name).With("path", path).Wrap(ErrPresetExists)
		}
	}
	if err := SaveFile(m, path); err != nil {
		return "", err
	}
	return path, nil
}
