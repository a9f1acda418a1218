package config

import (
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
)

// AppConfig holds every configurable path.
type AppConfig struct {
	// GameDir is the game install directory, the one containing Stalker2/.
	// Default: unset
	GameDir string

	// PackerPath overrides the packer search.
	// Default: unset
	PackerPath string

	// DataDir holds default_ini/, default_config.db and repak/.
	// Default: <executable dir>/data
	DataDir string

	// UserDataDir holds app_preferences.json.
	// Default: $HOME/.scam
	UserDataDir string

	// StagingDir is the parent of temporary build trees.
	// Default: unset (system temporary directory)
	StagingDir string

	// PresetsDir holds saved presets.
	// Default: <executable dir>/Presets
	PresetsDir string
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	exeDir := util.ExecutableDir()
	return AppConfig{
		DataDir:     filepath.Join(exeDir, "data"),
		UserDataDir: BuildSCAMDirPath(),
		PresetsDir:  filepath.Join(exeDir, "Presets"),
	}
}

// DefaultIniDir is the directory of schema files and bundles inside DataDir.
func (c AppConfig) DefaultIniDir() string {
	return filepath.Join(c.DataDir, "default_ini")
}

// DatabasePath is the optional embedded-config database inside DataDir.
func (c AppConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "default_config.db")
}

// PackerExecutable is the platform file name of the packer.
func PackerExecutable() string {
	if runtime.GOOS == "windows" {
		return "repak.exe"
	}
	return "repak"
}

// PackerCandidates lists where the packer is looked for, in order: the
// configured path, the bundled data directory, the data directory and a
// repak folder next to the executable.
func (c AppConfig) PackerCandidates() []string {
	exe := PackerExecutable()
	exeDir := util.ExecutableDir()
	candidates := []string{
		c.PackerPath,
		filepath.Join(exeDir, "data", "repak", exe),
		filepath.Join(c.DataDir, "repak", exe),
		filepath.Join(exeDir, "repak", exe),
	}
	return lo.Uniq(lo.Compact(candidates))
}

// Validate rejects a configuration missing a required directory.
func Validate(cfg AppConfig) error {
	log.WithFields(logger.Fields{
		"at":     "config.Validate",
		"reason": "verification_requested",
	}).Debug("validating configuration")

	required := map[string]string{
		KeyDataDir:     cfg.DataDir,
		KeyUserDataDir: cfg.UserDataDir,
		KeyPresetsDir:  cfg.PresetsDir,
	}
	for _, key := range []string{KeyDataDir, KeyUserDataDir, KeyPresetsDir} {
		if required[key] == "" {
			return newValidationError(key + " must not be empty")
		}
	}
	return nil
}

type validationError struct {
	message string
}

func newValidationError(message string) error {
	return &validationError{message: message}
}

func (e *validationError) Error() string {
	return "config validation failed: " + e.message
}
