//go:build !windows

package modbuild

import "os/exec"

func hideWindow(*exec.Cmd) {}
