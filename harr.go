package harr

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/andreyvit/harr/fsio"
)

// Array is a disk-backed map addressed by a binary trie over key bits.
// An Array owns its file handle exclusively; it is not safe for concurrent
// use, and two instances must never share a file.
type Array struct {
	f      *os.File
	path   string // "" when backed by a private temp file
	temp   bool
	locked bool
	closed bool

	logf    func(format string, args ...any)
	verbose bool
	noSync  bool
	enc     encodingMethod

	fileEnd uint32 // end-of-allocations watermark, equals file length
	count   uint32 // mirror of header bytes 8..11

	cursor Cursor

	ReadCount  atomic.Uint64
	WriteCount atomic.Uint64
}

type Options struct {
	// Logf receives diagnostics: missing-key notices from Get, and
	// per-operation traces when Verbose is set.
	Logf    func(format string, args ...any)
	Verbose bool

	// IsTesting skips the per-mutation flush.
	IsTesting bool

	// Encoding selects the value serializer (MsgPack by default). Must match
	// the encoder that wrote any existing data in the file.
	Encoding encodingMethod

	// NoLock skips the advisory file lock normally taken on open.
	NoLock bool
}

// Open opens or initializes the array backed by the file at path. An empty
// path opens a private temporary file that is deleted on Close.
func Open(path string, opt Options) (*Array, error) {
	if opt.Logf == nil {
		opt.Logf = func(format string, args ...any) {}
	}

	a := &Array{
		path:    path,
		logf:    opt.Logf,
		verbose: opt.Verbose,
		noSync:  opt.IsTesting,
		enc:     opt.Encoding,
	}
	a.cursor = Cursor{a: a, nodeOff: rootOffset}

	var err error
	if path == "" {
		a.f, err = os.CreateTemp("", "harr_*.harr")
		a.temp = true
	} else {
		a.f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	}
	if err != nil {
		return nil, fmt.Errorf("harr: %w", err)
	}

	if !opt.NoLock {
		if err := fsio.Flock(a.f); err != nil {
			a.discard()
			return nil, fmt.Errorf("harr: locking %s: %w", a.f.Name(), err)
		}
		a.locked = true
	}

	if err := a.load(); err != nil {
		a.discard()
		return nil, err
	}
	return a, nil
}

// load validates an existing file, or initializes an empty one.
func (a *Array) load() error {
	st, err := a.f.Stat()
	if err != nil {
		return fmt.Errorf("harr: %w", err)
	}
	size := st.Size()

	if size == 0 {
		return a.Clear()
	}
	if size < headerSize {
		return ErrTruncated
	}
	if size > math.MaxUint32 {
		return fileErrf(a.path, size, nil, "file exceeds the 4 GiB format limit")
	}

	var hdr [headerSize]byte
	if err := a.readAt(hdr[:], 0); err != nil {
		return err
	}
	count, err := parseHeader(hdr[:])
	if err != nil {
		return err
	}
	if size < headerSize+nodeSize {
		return ErrTruncated
	}

	a.fileEnd = uint32(size)
	a.count = count
	return nil
}

// discard releases the handle without flushing, for failed opens.
func (a *Array) discard() {
	name := a.f.Name()
	if a.locked {
		_ = fsio.Funlock(a.f)
	}
	_ = a.f.Close()
	if a.temp {
		_ = os.Remove(name)
	}
	a.closed = true
}

// Close flushes and releases the file. A user-supplied file is left
// world-accessible (historical behavior of the format); a temporary file is
// deleted.
func (a *Array) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	err := fsio.Fdatasync(a.f)
	if a.path != "" {
		if cherr := a.f.Chmod(0o777); err == nil {
			err = cherr
		}
	}
	if a.locked {
		if uerr := fsio.Funlock(a.f); err == nil {
			err = uerr
		}
	}
	name := a.f.Name()
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	if a.temp {
		if rerr := os.Remove(name); err == nil {
			err = rerr
		}
	}
	if err != nil {
		return fmt.Errorf("harr: closing: %w", err)
	}
	return nil
}

// Path returns the backing file path, or "" for a temporary file.
func (a *Array) Path() string {
	return a.path
}

// Size returns the current file length in bytes.
func (a *Array) Size() int64 {
	return int64(a.fileEnd)
}

func (a *Array) readAt(b []byte, off uint32) error {
	if _, err := a.f.ReadAt(b, int64(off)); err != nil {
		return fileErrf(a.path, int64(off), err, "reading %d bytes", len(b))
	}
	return nil
}

func (a *Array) writeAt(b []byte, off uint32) error {
	if _, err := a.f.WriteAt(b, int64(off)); err != nil {
		return fileErrf(a.path, int64(off), err, "writing %d bytes", len(b))
	}
	return nil
}

func (a *Array) readU32(off uint32) (uint32, error) {
	var b [4]byte
	if err := a.readAt(b[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (a *Array) writeU32(off uint32, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return a.writeAt(b[:], off)
}

func (a *Array) readNode(off uint32) (node, error) {
	var b [nodeSize]byte
	if err := a.readAt(b[:], off); err != nil {
		return node{}, err
	}
	return decodeNode(b[:]), nil
}

func (a *Array) persistCount() error {
	return a.writeU32(countOffset, a.count)
}

// truncateBack restores the file to a previous watermark after a failed
// append, discarding any partially written allocations.
func (a *Array) truncateBack(end uint32) {
	_ = a.f.Truncate(int64(end))
	a.fileEnd = end
}

func (a *Array) flush() error {
	if a.noSync {
		return nil
	}
	if err := fsio.Fdatasync(a.f); err != nil {
		return fileErrf(a.path, 0, err, "flush")
	}
	return nil
}

// canonicalKey borrows a pooled buffer; callers must releaseKeyBytes it.
func (a *Array) canonicalKey(key any) ([]byte, error) {
	buf := keyBytesPool.Get().([]byte)
	k, err := appendCanonicalKey(buf[:0], key)
	if err != nil {
		releaseKeyBytes(buf)
		return nil, err
	}
	return k, nil
}
