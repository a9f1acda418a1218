package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util/logger"
)

// StandardFilePermissions for presets, preferences and generated files.
const StandardFilePermissions = 0o644

// StandardDirPermissions for directories the tool creates.
const StandardDirPermissions = 0o755

// SanitizePath resolves userPath against basePath and rejects results that
// escape basePath. It returns the absolute resolved path.
func SanitizePath(basePath, userPath string) (string, error) {
	if basePath == "" {
		return "", oops.Errorf("base path cannot be empty")
	}
	cleanBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", oops.Wrapf(err, "invalid base path")
	}
	if userPath == "" {
		return cleanBase, nil
	}

	resolved := userPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(cleanBase, resolved)
	}
	absResolved, err := filepath.Abs(filepath.Clean(resolved))
	if err != nil {
		return "", oops.Wrapf(err, "invalid path")
	}

	baseWithSep := cleanBase + string(filepath.Separator)
	if absResolved != cleanBase && !strings.HasPrefix(absResolved, baseWithSep) {
		log.WithFields(logger.Fields{
			"at":            "SanitizePath",
			"reason":        "path_traversal_attempt",
			"base_path":     cleanBase,
			"resolved_path": absResolved,
		}).Warn("path outside base directory blocked")
		return "", oops.Errorf("path %q escapes base directory %q", userPath, basePath)
	}
	return absResolved, nil
}

// CreateStandardDirectory creates path and its parents.
func CreateStandardDirectory(path string) error {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(cleanPath, StandardDirPermissions); err != nil {
		return oops.With("path", cleanPath).Wrapf(err, "failed to create directory")
	}
	return nil
}
