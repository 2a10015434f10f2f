package harr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestOpenFresh(t *testing.T) {
	a := must(Open("", Options{IsTesting: true}))
	defer a.Close()

	if a.Size() != headerSize+nodeSize {
		t.Fatalf("Size = %d, wanted %d", a.Size(), headerSize+nodeSize)
	}
	deepEqual(t, a.Count(), 0)

	_, found, err := a.Get("a")
	ensure(err)
	if found {
		t.Fatalf("Get on fresh array found a value")
	}
}

func TestGetEmitsMissingKeyNotice(t *testing.T) {
	var lines []string
	a := must(Open("", Options{
		IsTesting: true,
		Logf: func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		},
	}))
	defer a.Close()

	_, _, err := a.Get("ghost")
	ensure(err)
	if len(lines) != 1 || !strings.Contains(lines[0], `missing key "ghost"`) {
		t.Fatalf("notice lines = %q, wanted one missing key notice", lines)
	}

	v := must(a.TryGet("ghost", "fallback"))
	deepEqual[any](t, v, "fallback")
	if len(lines) != 1 {
		t.Fatalf("TryGet emitted a notice: %q", lines)
	}
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.bin")
	ensure(os.WriteFile(path, []byte("PNG\x00this is not our file at all"), 0o666))

	_, err := Open(path, Options{IsTesting: true})
	if !errors.Is(err, ErrNotAHugeArray) {
		t.Fatalf("Open = %v, wanted ErrNotAHugeArray", err)
	}
}

func TestOpenRejectsFutureVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.harr")
	b := make([]byte, headerSize+nodeSize)
	putHeader(b, 0)
	b[4] = 2 // version
	ensure(os.WriteFile(path, b, 0o666))

	_, err := Open(path, Options{IsTesting: true})
	if !errors.Is(err, ErrIncompatibleVersion) {
		t.Fatalf("Open = %v, wanted ErrIncompatibleVersion", err)
	}
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()

	shortPath := filepath.Join(dir, "short.harr")
	ensure(os.WriteFile(shortPath, []byte("HAR"), 0o666))
	_, err := Open(shortPath, Options{IsTesting: true})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Open(3 bytes) = %v, wanted ErrTruncated", err)
	}

	headerOnlyPath := filepath.Join(dir, "headeronly.harr")
	b := make([]byte, headerSize)
	putHeader(b, 0)
	ensure(os.WriteFile(headerOnlyPath, b, 0o666))
	_, err = Open(headerOnlyPath, Options{IsTesting: true})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Open(header only) = %v, wanted ErrTruncated", err)
	}
}

func TestReopenPreservesContents(t *testing.T) {
	a := setup(t)
	set(t, a, "alpha", "first")
	set(t, a, "beta", int64(42))
	set(t, a, "gamma", nil)
	set(t, a, uint64(17), true)

	sizeBefore := a.Size()
	a = reopen(t, a)

	deepEqual(t, a.Size(), sizeBefore)
	deepEqual(t, a.Count(), 4)
	deepEqual(t, get(t, a, "alpha"), any("first"))
	deepEqual(t, get(t, a, "beta"), any(int64(42)))
	deepEqual(t, get(t, a, "gamma"), any(nil))
	deepEqual(t, get(t, a, uint64(17)), any(true))
}

func TestClear(t *testing.T) {
	a := setup(t)
	set(t, a, "a", "value")
	set(t, a, "b", "value")
	deepEqual(t, a.Count(), 2)

	ensure(a.Clear())
	deepEqual(t, a.Count(), 0)
	if a.Size() != headerSize+nodeSize {
		t.Fatalf("Size after Clear = %d, wanted %d", a.Size(), headerSize+nodeSize)
	}
	if ok := must(a.Exists("a")); ok {
		t.Fatalf("key survived Clear")
	}

	a = reopen(t, a)
	deepEqual(t, a.Count(), 0)
}

func TestCloseIsIdempotent(t *testing.T) {
	a := must(Open("", Options{IsTesting: true}))
	ensure(a.Close())
	ensure(a.Close())

	if err := a.Set("a", 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("Set after Close = %v, wanted ErrClosed", err)
	}
	if _, _, err := a.Get("a"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Get after Close = %v, wanted ErrClosed", err)
	}
}

func TestCloseRemovesTempFile(t *testing.T) {
	a := must(Open("", Options{IsTesting: true}))
	name := a.f.Name()
	ensure(a.Close())
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Fatalf("temp file %s survived Close (err=%v)", name, err)
	}
}

func TestCloseMakesFileWorldAccessible(t *testing.T) {
	a := setup(t)
	path := a.Path()
	ensure(a.Close())

	st := must(os.Stat(path))
	if perm := st.Mode().Perm(); perm != 0o777 {
		t.Fatalf("file mode after Close = %o, wanted 777", perm)
	}
}

func TestFileEndMatchesFileLength(t *testing.T) {
	a := setup(t)
	check := func() {
		t.Helper()
		st := must(a.f.Stat())
		if st.Size() != a.Size() {
			t.Fatalf("file length %d != watermark %d", st.Size(), a.Size())
		}
	}

	check()
	set(t, a, "a", 123)
	check()
	set(t, a, "a", strings.Repeat("long", 32))
	check()
	unset(t, a, "a")
	check()
	ensure(a.Clear())
	check()
}

func setup(t testing.TB) *Array {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.harr")
	a := must(Open(path, Options{IsTesting: true}))
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func reopen(t testing.TB, a *Array) *Array {
	t.Helper()
	path := a.Path()
	ensure(a.Close())
	a2 := must(Open(path, Options{IsTesting: true}))
	t.Cleanup(func() { _ = a2.Close() })
	return a2
}

func set(t testing.TB, a *Array, key, value any) {
	t.Helper()
	if err := a.Set(key, value); err != nil {
		t.Fatalf("Set(%v, %v): %v", key, value, err)
	}
}

func unset(t testing.TB, a *Array, key any) {
	t.Helper()
	if err := a.Unset(key); err != nil {
		t.Fatalf("Unset(%v): %v", key, err)
	}
}

func get(t testing.TB, a *Array, key any) any {
	t.Helper()
	v, found, err := a.Get(key)
	if err != nil {
		t.Fatalf("Get(%v): %v", key, err)
	}
	if !found {
		t.Fatalf("Get(%v): missing", key)
	}
	return v
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}
