package modbuild

import (
	"io"
	"os"

	"github.com/samber/oops"
)

// moveFile renames src to dst, copying when the rename crosses volumes.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return oops.With("path", src).Wrapf(err, "opening archive")
	}
	defer in.Close()

	tmp := dst + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return oops.With("path", tmp).Wrapf(err, "creating archive")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return oops.With("path", dst).Wrapf(err, "copying archive")
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return oops.With("path", dst).Wrapf(err, "copying archive")
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return oops.With("path", dst).Wrapf(err, "replacing archive")
	}
	return os.Remove(src)
}
