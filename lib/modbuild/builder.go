// Package modbuild packs a changed-value map into a game archive: it stages
// the generated config in a temporary tree, runs the external packer on it
// and moves the result into the game's mods directory.
package modbuild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/modcfg"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

// PrototypePath is the folder chain, below the staged mod folder, where the
// game mounts prototype overrides.
var PrototypePath = []string{"Stalker2", "Content", "GameLite", "GameData", "ObjPrototypes"}

// Builder produces archives for one mod identity.
type Builder struct {
	Identity config.ModIdentity
	Packer   Packer
	// StagingRoot is the parent of temporary build trees; empty means the
	// system temporary directory.
	StagingRoot string
}

// Result describes a finished build.
type Result struct {
	Archive       string
	Size          int64
	Incompatible  []string
	RemovedLegacy bool
}

// Outcome is delivered by BuildAsync.
type Outcome struct {
	Result *Result
	Err    error
}

// ContentPath returns the generated file's path relative to the staging
// root.
func ContentPath(id config.ModIdentity) string {
	parts := append([]string{id.ModFolder}, PrototypePath...)
	parts = append(parts, id.CfgFolder, id.CfgFile)
	return filepath.Join(parts...)
}

// Content renders the file that goes into the archive. The Aiming section
// only carries editor state and is left out.
func Content(m *schema.ValueMap) string {
	c := m.Clone()
	c.DeleteSection(schema.SectionAiming)
	return modcfg.Generate(c)
}

// Build packs m and places the archive in modsDir. On failure the mods
// directory is left as it was.
func (b *Builder) Build(ctx context.Context, m *schema.ValueMap, modsDir string) (*Result, error) {
	return b.build(ctx, Content(m), modsDir)
}

// BuildAsync renders the content on the calling goroutine and packs it on a
// new one. The channel receives exactly one Outcome.
func (b *Builder) BuildAsync(ctx context.Context, m *schema.ValueMap, modsDir string) <-chan Outcome {
	content := Content(m)
	ch := make(chan Outcome, 1)
	go func() {
		res, err := b.build(ctx, content, modsDir)
		ch <- Outcome{Result: res, Err: err}
		close(ch)
	}()
	return ch
}

func (b *Builder) build(ctx context.Context, content, modsDir string) (*Result, error) {
	res := &Result{Incompatible: FindIncompatible(modsDir)}
	if len(res.Incompatible) > 0 {
		log.WithFields(logger.Fields{
			"at":           "modbuild.Build",
			"mods_dir":     modsDir,
			"incompatible": res.Incompatible,
		}).Warn("incompatible mods installed")
	}

	if b.Packer == nil {
		return nil, stageError(StagePacker, "", ErrPackerNotFound)
	}
	if err := b.Packer.Check(); err != nil {
		return nil, stageError(StagePacker, "", err)
	}

	staging, err := newStagingDir(b.StagingRoot)
	if err != nil {
		return nil, stageError(StageStaging, b.StagingRoot, err)
	}
	defer func() {
		util.DeregisterCloser(staging)
		staging.Close()
	}()

	target := filepath.Join(staging.path, ContentPath(b.Identity))
	if err := os.MkdirAll(filepath.Dir(target), util.StandardDirPermissions); err != nil {
		return nil, stageError(StageStaging, filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(content), util.StandardFilePermissions); err != nil {
		return nil, stageError(StageStaging, target, err)
	}

	if err := b.Packer.Pack(ctx, staging.path, b.Identity.ModFolder); err != nil {
		be := stageError(StagePack, staging.path, err)
		var pe *PackError
		if errors.As(err, &pe) {
			be.ExitCode = pe.ExitCode
			be.Output = pe.Output
		}
		return nil, be
	}

	produced := filepath.Join(staging.path, b.Identity.ArchiveName())
	info, err := os.Stat(produced)
	if err != nil {
		return nil, stageError(StagePack, produced, oops.Wrapf(err, "packer produced no archive"))
	}

	if err := os.MkdirAll(modsDir, util.StandardDirPermissions); err != nil {
		return nil, stageError(StageRelocate, modsDir, err)
	}
	res.Archive = filepath.Join(modsDir, b.Identity.ArchiveName())
	if err := moveFile(produced, res.Archive); err != nil {
		return nil, stageError(StageRelocate, res.Archive, err)
	}
	res.Size = info.Size()

	legacy := filepath.Join(modsDir, LegacyArchiveName)
	if legacy != res.Archive && util.CheckFileExists(legacy) {
		if err := os.Remove(legacy); err != nil {
			log.WithError(err).WithField("path", legacy).Warn("could not remove legacy archive")
		} else {
			res.RemovedLegacy = true
		}
	}

	log.WithFields(logger.Fields{
		"at":      "modbuild.Build",
		"archive": res.Archive,
		"size":    res.Size,
	}).Debug("archive built")
	return res, nil
}

// stagingDir is a temporary build tree. It is registered as a closer so an
// interrupt removes it.
type stagingDir struct {
	path string
	once sync.Once
	err  error
}

func newStagingDir(root string) (*stagingDir, error) {
	if root != "" {
		if err := os.MkdirAll(root, util.StandardDirPermissions); err != nil {
			return nil, err
		}
	}
	path, err := os.MkdirTemp(root, "pak_mod_builder")
	if err != nil {
		return nil, err
	}
	s := &stagingDir{path: path}
	util.RegisterCloser(s)
	log.WithFields(logger.Fields{
		"at":   "modbuild.newStagingDir",
		"path": path,
	}).Debug("created staging directory")
	return s, nil
}

// Close removes the tree. Only the first call has an effect.
func (s *stagingDir) Close() error {
	s.once.Do(func() {
		s.err = os.RemoveAll(s.path)
		if s.err != nil {
			log.WithError(s.err).WithField("path", s.path).Warn("could not remove staging directory")
		}
	})
	return s.err
}
