//go:build windows

package gamedir

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

var steamInstallNames = []string{
	"S.T.A.L.K.E.R. 2 Heart of Chornobyl",
	"S.T.A.L.K.E.R. 2",
}

// Detect looks for the game in the Steam library recorded in the registry.
func Detect() (string, bool) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer key.Close()

	steam, _, err := key.GetStringValue("SteamPath")
	if err != nil || steam == "" {
		return "", false
	}
	for _, name := range steamInstallNames {
		dir := filepath.Join(filepath.FromSlash(steam), "steamapps", "common", name)
		if IsGameDir(dir) {
			log.WithField("path", dir).Debug("detected game directory")
			return dir, true
		}
	}
	return "", false
}
