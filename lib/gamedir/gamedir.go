// Package gamedir locates the game installation and manages the archives
// installed in its mods directory.
package gamedir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

// GameFolder is the folder whose parent is the game directory.
const GameFolder = "Stalker2"

const modsFolder = "~mods"

// ErrNotGameDir is returned when no game directory can be found near a
// selected path.
var ErrNotGameDir = errors.New("not a game directory")

// installPatterns appear in typical store install paths.
var installPatterns = []string{
	"steamapps/common",
	"XboxGames",
	"S.T.A.L.K.E.R. 2",
	"Stalker 2",
	"Heart of Chornobyl",
}

// IsGameDir reports whether dir contains the game folder.
func IsGameDir(dir string) bool {
	return dir != "" && util.CheckDirExists(filepath.Join(dir, GameFolder))
}

// ModsDir returns the mods directory of a game directory.
func ModsDir(game string) string {
	return filepath.Join(game, GameFolder, "Content", "Paks", modsFolder)
}

// EnsureModsDir creates the mods directory of game if needed.
func EnsureModsDir(game string) (string, error) {
	dir := ModsDir(game)
	if err := util.CreateStandardDirectory(dir); err != nil {
		return "", oops.With("path", dir).Wrapf(err, "creating mods directory")
	}
	return dir, nil
}

// Resolve returns the game directory for a user selection, correcting the
// common mistakes of picking the game folder itself, the mods folder, a
// parent or a subfolder of the install.
func Resolve(selected string) (string, error) {
	if selected == "" {
		return "", oops.Wrapf(ErrNotGameDir, "no directory selected")
	}
	selected = filepath.Clean(selected)
	if !util.CheckDirExists(selected) {
		return "", oops.With("path", selected).Wrapf(ErrNotGameDir, "directory does not exist")
	}

	found, how := resolve(selected)
	if found == "" {
		return "", oops.With("path", selected).Wrapf(ErrNotGameDir, "%s", selected)
	}
	if found != selected {
		log.WithFields(logger.Fields{
			"at":       "gamedir.Resolve",
			"selected": selected,
			"resolved": found,
			"rule":     how,
		}).Debug("corrected game directory")
	}
	return found, nil
}

func resolve(selected string) (string, string) {
	if IsGameDir(selected) {
		return selected, "selected"
	}
	base := filepath.Base(selected)
	if base == GameFolder {
		if parent := filepath.Dir(selected); IsGameDir(parent) {
			return parent, "game folder"
		}
	}
	if base == modsFolder {
		if dir := searchUp(selected, 4); dir != "" {
			return dir, "mods folder"
		}
	}
	if dir := searchDown(selected, 2); dir != "" {
		return dir, "parent"
	}
	if dir := searchUp(selected, 3); dir != "" {
		return dir, "subfolder"
	}
	lower := strings.ToLower(filepath.ToSlash(selected))
	if lo.SomeBy(installPatterns, func(p string) bool { return strings.Contains(lower, strings.ToLower(p)) }) {
		if dir := searchUp(selected, 4); dir != "" {
			return dir, "install path"
		}
	}
	return "", ""
}

// searchUp checks up to levels ancestors of dir, nearest first.
func searchUp(dir string, levels int) string {
	for i := 0; i < levels; i++ {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if IsGameDir(parent) {
			return parent
		}
		dir = parent
	}
	return ""
}

// searchDown checks the descendants of root down to depth levels.
func searchDown(root string, depth int) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		level := 0
		if rel != "." {
			level = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if level > depth {
			return fs.SkipDir
		}
		if level > 0 && IsGameDir(path) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Installed returns the archives among names present in modsDir.
func Installed(modsDir string, names ...string) []string {
	return lo.Filter(names, func(n string, _ int) bool {
		return util.CheckFileExists(filepath.Join(modsDir, n))
	})
}

// Remove deletes the named archives from modsDir and reports whether any
// was removed.
func Remove(modsDir string, names ...string) (bool, error) {
	removed := false
	for _, name := range names {
		path := filepath.Join(modsDir, name)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = true
			log.WithFields(logger.Fields{
				"at":   "gamedir.Remove",
				"path": path,
			}).Debug("removed archive")
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, oops.With("path", path).Wrapf(err, "removing %s", name)
		}
	}
	return removed, nil
}
