package harr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotAHugeArray means the file exists but does not start with the
	// HARR magic.
	ErrNotAHugeArray = errors.New("not a huge array file")

	// ErrIncompatibleVersion means the magic is fine but the format version
	// isn't one this package reads.
	ErrIncompatibleVersion = errors.New("incompatible format version")

	// ErrTruncated means the file is shorter than a header plus the root
	// node, so it cannot have been produced by a completed initialization.
	ErrTruncated = errors.New("file truncated")

	// ErrInvalidKey means the key is of a category that cannot be
	// canonicalized into a byte string (e.g. a struct or a non-integer
	// float).
	ErrInvalidKey = errors.New("invalid key")

	// ErrBadUpdateResponse wraps an error returned by an Update callback.
	ErrBadUpdateResponse = errors.New("bad update response")

	// ErrClosed is returned by operations that access the file once the
	// Array is closed. Close itself returns nil on a closed Array.
	ErrClosed = errors.New("array is closed")
)

// FileError describes an I/O or consistency failure at a specific offset of
// the backing file.
type FileError struct {
	Path string
	Off  int64
	Msg  string
	Err  error
}

func fileErrf(path string, off int64, err error, format string, args ...any) error {
	return &FileError{path, off, fmt.Sprintf(format, args...), err}
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Error() string {
	var buf strings.Builder
	buf.WriteString("harr ")
	if e.Path == "" {
		buf.WriteString("<temp>")
	} else {
		buf.WriteString(e.Path)
	}
	fmt.Fprintf(&buf, " @%d: %s", e.Off, e.Msg)
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
