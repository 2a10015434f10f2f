//go:build !linux

package fsio

import "os"

func fdatasync(f *os.File) error {
	return f.Sync()
}
