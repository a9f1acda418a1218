package modbuild

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPackerNotFound is returned before anything is staged when no packer
// executable can be located.
var ErrPackerNotFound = errors.New("packer executable not found")

// Stage names the build step that failed.
type Stage string

const (
	StagePacker   Stage = "packer"
	StageStaging  Stage = "staging"
	StagePack     Stage = "pack"
	StageRelocate Stage = "relocate"
)

// BuildError reports a failed build with the path or exit detail needed for
// a specific diagnostic. ExitCode is -1 unless the packer ran and failed.
type BuildError struct {
	Stage    Stage
	Path     string
	ExitCode int
	Output   string
	Err      error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build failed at %s stage", e.Stage)
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, ": packer exited with code %d", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

func (e *BuildError) Unwrap() error { return e.Err }

func stageError(stage Stage, path string, err error) *BuildError {
	return &BuildError{Stage: stage, Path: path, ExitCode: -1, Err: err}
}
