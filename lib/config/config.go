package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetSCAMLogger()
)

const SCAM_BASE_DIR = ".scam"

// Viper keys.
const (
	KeyGameDir     = "game_dir"
	KeyPackerPath  = "packer_path"
	KeyDataDir     = "data_dir"
	KeyUserDataDir = "user_data_dir"
	KeyStagingDir  = "staging_dir"
	KeyPresetsDir  = "presets_dir"
)

// InitConfig loads CfgFile, or config.yaml from BuildSCAMDirPath, creating
// the latter with defaults when it does not exist yet.
func InitConfig() error {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildSCAMDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("SCAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	d := Defaults()
	viper.SetDefault(KeyGameDir, d.GameDir)
	viper.SetDefault(KeyPackerPath, d.PackerPath)
	viper.SetDefault(KeyDataDir, d.DataDir)
	viper.SetDefault(KeyUserDataDir, d.UserDataDir)
	viper.SetDefault(KeyStagingDir, d.StagingDir)
	viper.SetDefault(KeyPresetsDir, d.PresetsDir)
}

// Current materialises the active configuration from viper.
func Current() AppConfig {
	return AppConfig{
		GameDir:     viper.GetString(KeyGameDir),
		PackerPath:  viper.GetString(KeyPackerPath),
		DataDir:     viper.GetString(KeyDataDir),
		UserDataDir: viper.GetString(KeyUserDataDir),
		StagingDir:  viper.GetString(KeyStagingDir),
		PresetsDir:  viper.GetString(KeyPresetsDir),
	}
}

// SetGameDir stores dir as the game directory and writes the config file.
func SetGameDir(dir string) error {
	viper.Set(KeyGameDir, dir)
	if err := writeConfig(); err != nil {
		return oops.With("game_dir", dir).Wrapf(err, "saving game directory")
	}
	log.WithFields(logger.Fields{
		"at":       "config.SetGameDir",
		"game_dir": dir,
		"file":     viper.ConfigFileUsed(),
	}).Debug("saved game directory")
	return nil
}

func writeConfig() error {
	if viper.ConfigFileUsed() == "" {
		return createDefaultConfig(BuildSCAMDirPath())
	}
	return viper.WriteConfig()
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	if err := os.MkdirAll(defaultConfigDir, util.StandardDirPermissions); err != nil {
		return oops.With("dir", defaultConfigDir).Wrapf(err, "could not create config directory")
	}

	if err := viper.WriteConfigAs(defaultConfigFile); err != nil {
		return oops.With("path", defaultConfigFile).Wrapf(err, "could not write default config file")
	}
	viper.SetConfigFile(defaultConfigFile)

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
	return nil
}

func handleConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if CfgFile != "" {
				return oops.Wrapf(err, "config file %s is not found", CfgFile)
			}
			return createDefaultConfig(BuildSCAMDirPath())
		}
		if os.IsNotExist(err) && CfgFile != "" {
			return oops.Wrapf(err, "config file %s is not found", CfgFile)
		}
		return oops.Wrapf(err, "error reading config file")
	}
	log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	return nil
}

// BuildSCAMDirPath returns $HOME/.scam.
func BuildSCAMDirPath() string {
	return filepath.Join(util.UserHome(), SCAM_BASE_DIR)
}
