package config

import (
	"errors"
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/tidwall/gjson"
)

// IdentityFile is the data file naming the mod.
const IdentityFile = "mod_config.json"

// ErrMissingIdentityKey is returned when mod_config.json lacks a key.
var ErrMissingIdentityKey = errors.New("missing mod identity key")

// ModIdentity names the packed mod: the staged folder (and so the archive),
// the config folder inside the game's prototype tree and the config file.
type ModIdentity struct {
	ModFolder string
	CfgFolder string
	CfgFile   string
}

// ArchiveName is the file the packer produces for ModFolder.
func (m ModIdentity) ArchiveName() string {
	return m.ModFolder + ".pak"
}

// LoadModIdentity reads mod_settings from IdentityFile in src. All three
// keys are required.
func LoadModIdentity(src datastore.Source) (ModIdentity, error) {
	data, err := src.ReadFile(IdentityFile)
	if err != nil {
		return ModIdentity{}, oops.With("source", src.String()).Wrapf(err, "reading mod identity")
	}
	return ParseModIdentity(data)
}

// ParseModIdentity decodes a mod_config.json document.
func ParseModIdentity(data []byte) (ModIdentity, error) {
	if !gjson.ValidBytes(data) {
		return ModIdentity{}, oops.Errorf("%s is not valid JSON", IdentityFile)
	}
	settings := gjson.GetBytes(data, "mod_settings")
	get := func(key string) (string, error) {
		v := strings.TrimSpace(settings.Get(key).String())
		if v == "" {
			return "", oops.With("key", key).Wrapf(ErrMissingIdentityKey, "mod_settings.%s", key)
		}
		if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
			return "", oops.With("key", key).Errorf("mod_settings.%s must be a plain name, got %q", key, v)
		}
		return v, nil
	}

	var id ModIdentity
	var err error
	if id.ModFolder, err = get("mod_folder_name"); err != nil {
		return ModIdentity{}, err
	}
	if id.CfgFolder, err = get("cfg_folder_name"); err != nil {
		return ModIdentity{}, err
	}
	if id.CfgFile, err = get("cfg_file_name"); err != nil {
		return ModIdentity{}, err
	}
	return id, nil
}
