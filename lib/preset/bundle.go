package preset

import (
	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/scam-tools/scam/lib/schema"
)

// Bundle names a recommended preset shipped with the default data.
type Bundle string

const (
	BundleV3fish Bundle = "v3fish"
	BundleXYFix  Bundle = "xyfix"
)

var bundleFiles = map[Bundle]string{
	BundleV3fish: "v3fish_recommended.ini",
	BundleXYFix:  "xysensitivityfix.ini",
}

// Bundles lists the known bundles.
func Bundles() []Bundle {
	return []Bundle{BundleV3fish, BundleXYFix}
}

// File returns the data file name of b.
func (b Bundle) File() string {
	return bundleFiles[b]
}

// LoadBundle reads bundle b from src.
func LoadBundle(src datastore.Source, b Bundle) (*schema.ValueMap, error) {
	file, ok := bundleFiles[b]
	if !ok {
		return nil, oops.With("bundle", string(b)).Errorf("unknown bundle %q", string(b))
	}
	data, err := src.ReadFile(file)
	if err != nil {
		return nil, oops.With("bundle", string(b)).Wrapf(err, "reading bundle")
	}
	m, err := Parse(data)
	if err != nil {
		return nil, oops.With("bundle", string(b)).Wrap(err)
	}
	return m, nil
}
