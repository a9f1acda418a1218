package app

import (
	"context"
	"sync"

	"github.com/scam-tools/scam/lib/gamedir"
	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/prefs"
	"github.com/scam-tools/scam/lib/util/logger"
)

// Build is a started archive build.
type Build struct {
	// ModsDir is where the archive goes.
	ModsDir string
	// Local is set when no game directory is configured and the archive is
	// placed in the working directory.
	Local bool
	// Done receives the outcome once.
	Done <-chan modbuild.Outcome

	app      *App
	settings prefs.LastSettings

	once sync.Once
	res  *modbuild.Result
	err  error
}

// Wait blocks until the build ends and may be called more than once. A
// successful build stores the full working state as the last settings.
func (b *Build) Wait() (*modbuild.Result, error) {
	b.once.Do(func() {
		out := <-b.Done
		b.res, b.err = out.Result, out.Err
		if b.err == nil {
			b.app.prefs.SetLastSettings(b.settings)
		}
	})
	return b.res, b.err
}

// StartBuild checks the working values and starts packing them in the
// background. Invalid values yield *editor.ValidationError; unchanged values
// yield ErrNoChanges unless force-defaults is on.
func (a *App) StartBuild(ctx context.Context) (*Build, error) {
	if err := a.editor.Check(); err != nil {
		return nil, err
	}
	if !a.editor.HasAnyChanged() && !a.force {
		return nil, ErrNoChanges
	}
	values, err := a.editor.ChangedValues(a.force)
	if err != nil {
		return nil, err
	}
	full, err := a.editor.ChangedValues(true)
	if err != nil {
		return nil, err
	}
	id, err := a.modIdentity()
	if err != nil {
		return nil, err
	}

	b := &Build{
		app: a,
		settings: prefs.LastSettings{
			Config:          full,
			SyncSensitivity: a.editor.Sync(),
			ForceDefaults:   a.force,
		},
	}
	if game, ok := a.GameDir(); ok {
		if b.ModsDir, err = gamedir.EnsureModsDir(game); err != nil {
			return nil, err
		}
	} else {
		b.ModsDir, b.Local = workingDir(), true
	}

	builder := &modbuild.Builder{
		Identity:    id,
		Packer:      a.packer(),
		StagingRoot: a.cfg.StagingDir,
	}
	log.WithFields(logger.Fields{
		"at":       "app.StartBuild",
		"mods_dir": b.ModsDir,
		"local":    b.Local,
		"values":   values.Len(),
		"force":    a.force,
	}).Debug("starting build")
	b.Done = builder.BuildAsync(ctx, values, b.ModsDir)
	return b, nil
}

// Build builds and installs the archive, waiting for it to finish.
func (a *App) Build(ctx context.Context) (*modbuild.Result, *Build, error) {
	b, err := a.StartBuild(ctx)
	if err != nil {
		return nil, nil, err
	}
	res, err := b.Wait()
	return res, b, err
}
