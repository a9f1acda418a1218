package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/scam-tools/scam/lib/app"
	"github.com/scam-tools/scam/lib/editor"
	"github.com/scam-tools/scam/lib/gamedir"
	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/preset"
)

var (
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// describeError turns the errors users can act on into plain advice.
func describeError(err error) string {
	var verr *editor.ValidationError
	var berr *modbuild.BuildError
	switch {
	case errors.As(err, &verr):
		return "invalid values:\n  " + strings.Join(verr.Explanations, "\n  ")
	case errors.Is(err, app.ErrNoChanges):
		return "make some changes first (or use --force-defaults)"
	case errors.Is(err, app.ErrNoPreset):
		return "no preset selected; use `scam preset new <name>`"
	case errors.Is(err, app.ErrNoGameDir):
		return "game directory is not set; use `scam gamedir <path>`"
	case errors.Is(err, preset.ErrPresetExists):
		return err.Error() + "; add --overwrite to replace it"
	case errors.Is(err, gamedir.ErrNotGameDir):
		return err.Error() + "; pick the folder containing Stalker2"
	case errors.Is(err, modbuild.ErrPackerNotFound):
		return "repak was not found; place it in data/repak or set packer_path in the config file"
	case errors.As(err, &berr):
		return berr.Error()
	}
	return err.Error()
}
