// Package fsio holds the platform-specific file primitives used by the harr
// store: a cheap durability flush and advisory whole-file locking.
package fsio

import "os"

// Fdatasync triggers the fastest fsync-like operation that ensures
// durability of the data written to the given file.
//
// Fdatasync might be faster than f.Sync() aka fsync thanks to not syncing
// metadata (last modification/access time) that isn't necessary to ensure
// durability of the data.
//
// WARNING: ERRORS RETURNED BY THIS FUNCTION ARE NOT RECOVERABLE. Many
// operating systems and file systems mark modified pages as clean in case of
// fsync failures, and there is no way to ensure data correctness after a
// failure. The only sensible handling of fsync errors is to treat the file
// as corrupted and require manual inspection and recovery.
func Fdatasync(f *os.File) error {
	return fdatasync(f)
}

// Flock takes an exclusive, non-blocking advisory lock on the whole file.
// On platforms without flock semantics it is a no-op.
func Flock(f *os.File) error {
	return flock(f)
}

// Funlock releases a lock taken by Flock.
func Funlock(f *os.File) error {
	return funlock(f)
}
