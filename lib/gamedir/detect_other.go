//go:build !windows

package gamedir

// Detect is only implemented on Windows.
func Detect() (string, bool) { return "", false }
