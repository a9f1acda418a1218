// Package datastore provides read-only access to the data files the tool
// ships with: default-value schemas, recommended presets and the mod
// identity record.
//
// The same file may live in a directory next to the executable, in the
// SQLite database bundled with packaged builds, or inside the binary. A
// Chain tries each in turn so callers only deal with file names.
package datastore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("data file not found")

// Source reads named data files such as "default_values.ini".
type Source interface {
	ReadFile(name string) ([]byte, error)
	String() string
}

// DirSource reads files from a directory on disk.
type DirSource struct {
	Dir string
}

func (d DirSource) ReadFile(name string) ([]byte, error) {
	path := filepath.Join(d.Dir, filepath.Clean(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.With("path", path).Wrapf(ErrNotFound, "%s", name)
		}
		return nil, oops.With("path", path).Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (d DirSource) String() string { return "dir:" + d.Dir }

// FSSource reads files from an fs.FS, typically an embed.FS.
type FSSource struct {
	FS   fs.FS
	Name string
}

func (f FSSource) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(f.FS, filepath.ToSlash(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.With("source", f.Name).Wrapf(ErrNotFound, "%s", name)
		}
		return nil, oops.With("source", f.Name).Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (f FSSource) String() string { return "fs:" + f.Name }

// Chain returns the first successful read among its sources.
type Chain []Source

func (c Chain) ReadFile(name string) ([]byte, error) {
	var lastErr error = oops.Wrapf(ErrNotFound, "%s", name)
	for _, src := range c {
		if src == nil {
			continue
		}
		data, err := src.ReadFile(name)
		if err == nil {
			log.WithFields(logger.Fields{
				"at":     "Chain.ReadFile",
				"file":   name,
				"source": src.String(),
			}).Debug("data file resolved")
			return data, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).WithFields(logger.Fields{
				"at":     "Chain.ReadFile",
				"file":   name,
				"source": src.String(),
			}).Warn("data source failed, trying next")
		}
	}
	return nil, lastErr
}

func (c Chain) String() string {
	s := "chain["
	for i, src := range c {
		if i > 0 {
			s += ","
		}
		if src != nil {
			s += src.String()
		}
	}
	return s + "]"
}
