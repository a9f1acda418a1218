package modbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/util/logger"
)

// Packer turns a staged folder into an archive next to it.
type Packer interface {
	// Check returns ErrPackerNotFound when the packer cannot run.
	Check() error
	// Pack packs stagingRoot/folder into stagingRoot/folder.pak.
	Pack(ctx context.Context, stagingRoot, folder string) error
}

// PackError is a packer run that exited unsuccessfully.
type PackError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *PackError) Error() string {
	return fmt.Sprintf("packer exited with code %d: %v", e.ExitCode, e.Err)
}

func (e *PackError) Unwrap() error { return e.Err }

// ExecPacker runs the repak executable found first among Candidates.
type ExecPacker struct {
	Candidates []string
	path       string
}

// NewExecPacker returns a packer searching candidates in order.
func NewExecPacker(candidates []string) *ExecPacker {
	return &ExecPacker{Candidates: candidates}
}

// Path returns the absolute executable path after a successful Check.
func (p *ExecPacker) Path() string { return p.path }

func (p *ExecPacker) Check() error {
	found, ok := lo.Find(p.Candidates, func(c string) bool {
		info, err := os.Stat(c)
		return err == nil && info.Mode().IsRegular()
	})
	if !ok {
		return oops.With("candidates", p.Candidates).
			Wrapf(ErrPackerNotFound, "looked in %s", strings.Join(p.Candidates, ", "))
	}
	// Pack runs with the staging root as working directory.
	abs, err := filepath.Abs(found)
	if err != nil {
		return oops.With("packer", found).Wrapf(err, "resolving packer path")
	}
	p.path = abs
	log.WithFields(logger.Fields{
		"at":     "ExecPacker.Check",
		"packer": abs,
	}).Debug("found packer")
	return nil
}

// Pack runs `<packer> pack <folder>` with stagingRoot as working directory.
// The console window is hidden on Windows.
func (p *ExecPacker) Pack(ctx context.Context, stagingRoot, folder string) error {
	if p.path == "" {
		if err := p.Check(); err != nil {
			return err
		}
	}
	cmd := exec.CommandContext(ctx, p.path, "pack", folder)
	cmd.Dir = stagingRoot
	hideWindow(cmd)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.WithFields(logger.Fields{
		"at":     "ExecPacker.Pack",
		"packer": p.path,
		"dir":    stagingRoot,
		"folder": folder,
	}).Debug("running packer")

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &PackError{ExitCode: code, Output: out.String(), Err: err}
	}
	return nil
}
