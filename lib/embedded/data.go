package embedded

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

// DataDir is the directory name of the default data inside DataFS and inside
// an external data directory.
const DataDir = "default_ini"

// DataFS embeds the default data files at compile time.
//
//go:embed default_ini
var DataFS embed.FS

// Files returns the embedded data files rooted at DataDir.
func Files() fs.FS {
	sub, err := fs.Sub(DataFS, DataDir)
	if err != nil {
		// DataDir is a compile-time constant that always exists.
		panic(err)
	}
	return sub
}

// Source returns the embedded files as a datastore.Source.
func Source() datastore.Source {
	return datastore.FSSource{FS: Files(), Name: "embedded"}
}

// ListFiles returns the names of all embedded data files.
func ListFiles() ([]string, error) {
	entries, err := fs.ReadDir(Files(), ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ExtractDefaults writes every embedded data file into destDir. Existing
// files are kept unless overwrite is set. It returns the names written.
func ExtractDefaults(destDir string, overwrite bool) ([]string, error) {
	if err := util.CreateStandardDirectory(destDir); err != nil {
		return nil, oops.With("dir", destDir).Wrapf(err, "creating data directory")
	}
	names, err := ListFiles()
	if err != nil {
		return nil, err
	}
	var written []string
	for _, name := range names {
		destPath := filepath.Join(destDir, name)
		if !overwrite {
			if _, err := os.Stat(destPath); err == nil {
				log.WithFields(logger.Fields{
					"at":   "embedded.ExtractDefaults",
					"path": destPath,
				}).Debug("keeping existing data file")
				continue
			}
		}
		data, err := fs.ReadFile(Files(), name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(destPath, data, util.StandardFilePermissions); err != nil {
			return written, oops.With("path", destPath).Wrapf(err, "writing data file")
		}
		written = append(written, name)
	}
	return written, nil
}
