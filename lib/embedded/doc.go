// Package embedded ships the default data files inside the binary.
//
// The files under default_ini/ are the last link of the data-source chain:
// a data directory or default_config.db next to the executable overrides
// them file by file.
//
// # Basic Usage
//
//	src := datastore.Chain{
//	    datastore.DirSource{Dir: filepath.Join(dataDir, "default_ini")},
//	    embedded.Source(),
//	}
//	s, _ := schema.Load(src, "en")
//
// ExtractDefaults writes the embedded files to disk so they can be edited.
package embedded
