package util

import (
	"os"
)

// Check if a file exists and is readable etc
// returns false if not
func CheckFileExists(fpath string) bool {
	_, e := os.Stat(fpath)
	return e == nil
}

// CheckDirExists reports whether dpath exists and is a directory.
func CheckDirExists(dpath string) bool {
	info, err := os.Stat(dpath)
	return err == nil && info.IsDir()
}
