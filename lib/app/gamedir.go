package app

import (
	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/gamedir"
	"github.com/scam-tools/scam/lib/modbuild"
)

// GameDir returns the configured game directory when it still looks like
// one.
func (a *App) GameDir() (string, bool) {
	if gamedir.IsGameDir(a.cfg.GameDir) {
		return a.cfg.GameDir, true
	}
	return "", false
}

// SetGameDir resolves selected to a game directory and stores it.
func (a *App) SetGameDir(selected string) (string, error) {
	dir, err := gamedir.Resolve(selected)
	if err != nil {
		return "", err
	}
	if err := config.SetGameDir(dir); err != nil {
		return "", err
	}
	a.cfg.GameDir = dir
	return dir, nil
}

// DetectGameDir stores the game directory found through the platform's
// store records.
func (a *App) DetectGameDir() (string, bool) {
	dir, ok := gamedir.Detect()
	if !ok {
		return "", false
	}
	if _, err := a.SetGameDir(dir); err != nil {
		log.WithError(err).WithField("path", dir).Warn("could not store detected game directory")
		return "", false
	}
	return dir, true
}

// archiveNames lists the archive names this tool may have installed.
func (a *App) archiveNames() []string {
	names := []string{modbuild.LegacyArchiveName}
	if id, err := a.modIdentity(); err == nil {
		names = append([]string{id.ArchiveName()}, names...)
	}
	return names
}

// Installed lists the archives of this tool present in the game's mods
// directory.
func (a *App) Installed() []string {
	game, ok := a.GameDir()
	if !ok {
		return nil
	}
	return gamedir.Installed(gamedir.ModsDir(game), a.archiveNames()...)
}

// RemoveMod deletes the installed archives, current and legacy name, and
// forgets the working state. It reports whether anything was removed.
func (a *App) RemoveMod() (bool, error) {
	game, ok := a.GameDir()
	if !ok {
		return false, ErrNoGameDir
	}
	removed, err := gamedir.Remove(gamedir.ModsDir(game), a.archiveNames()...)
	if err != nil {
		return removed, err
	}
	if removed {
		a.prefs.ClearLastSettingsOnly()
	}
	return removed, nil
}
