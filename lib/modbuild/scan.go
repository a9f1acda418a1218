package modbuild

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// IncompatibleKeywords mark archives of mods that change the same player
// parameters.
var IncompatibleKeywords = []string{"FluidMovementAim", "FMAO"}

// LegacyArchiveName is the archive name used by earlier releases.
const LegacyArchiveName = "z_SCAMMovementAiming_P.pak"

// FindIncompatible walks modsDir for .pak files whose name contains one of
// IncompatibleKeywords. A missing directory has none.
func FindIncompatible(modsDir string) []string {
	var found []string
	_ = filepath.WalkDir(modsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == modsDir {
				return err
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".pak") {
			return nil
		}
		if lo.SomeBy(IncompatibleKeywords, func(k string) bool { return strings.Contains(d.Name(), k) }) {
			found = append(found, d.Name())
		}
		return nil
	})
	return found
}
