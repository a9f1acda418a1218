// Package config provides configuration management for scam.
//
// # Configuration Directories
//
// The tool reads from two places and writes to two others:
//
// DataDir: read-only defaults shipped next to the executable. It holds
// default_ini/ (schema files, recommended bundles, mod_config.json), an
// optional default_config.db and the repak packer.
//   - Default location: <executable dir>/data
//
// UserDataDir: mutable per-user state, currently app_preferences.json and
// config.yaml.
//   - Default location: $HOME/.scam
//
// PresetsDir: one INI file per saved preset.
//   - Default location: <executable dir>/Presets
//
// StagingDir: parent of the temporary build tree. Empty means the system
// temporary directory.
//
// Every key can be overridden in config.yaml, with a SCAM_ environment
// variable (SCAM_GAME_DIR, SCAM_PACKER_PATH, ...) or with a command-line flag.
package config
