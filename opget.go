package harr

// Get returns the value stored for key. An absent key yields (nil, false,
// nil) and reports a missing-key notice through the Logf hook; use TryGet
// when absence is expected.
func (a *Array) Get(key any) (any, bool, error) {
	v, found, err := a.getValue(key, true)
	if err != nil {
		return nil, false, err
	}
	return v, found, nil
}

// TryGet is Get without the missing-key notice; an absent key yields def.
func (a *Array) TryGet(key any, def any) (any, error) {
	v, found, err := a.getValue(key, false)
	if err != nil {
		return nil, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

func (a *Array) getValue(key any, noticeMissing bool) (any, bool, error) {
	if a.closed {
		return nil, false, ErrClosed
	}
	k, err := a.canonicalKey(key)
	if err != nil {
		return nil, false, err
	}
	defer releaseKeyBytes(k)
	a.ReadCount.Add(1)

	off, found, err := a.locate(k, false)
	if err != nil {
		return nil, false, err
	}
	var n node
	if found {
		n, err = a.readNode(off)
		if err != nil {
			return nil, false, err
		}
		found = n.typ != TypeUnset
	}
	if !found {
		if noticeMissing {
			a.logf("harr: missing key %q", k)
		} else if a.verbose {
			a.logf("harr: GET.MISSING %q", k)
		}
		return nil, false, nil
	}

	v, err := a.readNodeValue(n)
	if err != nil {
		return nil, false, err
	}
	if a.verbose {
		a.logf("harr: GET %q => (%v) %v", k, n.typ, v)
	}
	return v, true, nil
}

// Exists reports whether key holds any value, including an explicit nil.
func (a *Array) Exists(key any) (bool, error) {
	t, found, err := a.keyType(key)
	if err != nil {
		return false, err
	}
	return found && t != TypeUnset, nil
}

// OffsetExists reports whether key holds a value other than nil, mirroring
// the SQL convention that a stored NULL counts as absent.
func (a *Array) OffsetExists(key any) (bool, error) {
	t, found, err := a.keyType(key)
	if err != nil {
		return false, err
	}
	return found && t != TypeUnset && t != TypeNull, nil
}

func (a *Array) keyType(key any) (ValueType, bool, error) {
	if a.closed {
		return 0, false, ErrClosed
	}
	k, err := a.canonicalKey(key)
	if err != nil {
		return 0, false, err
	}
	defer releaseKeyBytes(k)
	a.ReadCount.Add(1)

	off, found, err := a.locate(k, false)
	if err != nil || !found {
		return 0, false, err
	}
	var tag [1]byte
	if err := a.readAt(tag[:], off); err != nil {
		return 0, false, err
	}
	return ValueType(tag[0]), true, nil
}
