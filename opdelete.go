package harr

// Unset removes the value stored for key. The trie nodes on the path and
// any value block stay allocated; the block is reused if the key is later
// assigned a serialized value that fits its capacity. Unsetting an absent
// key is a no-op.
func (a *Array) Unset(key any) error {
	if a.closed {
		return ErrClosed
	}
	k, err := a.canonicalKey(key)
	if err != nil {
		return err
	}
	defer releaseKeyBytes(k)
	a.WriteCount.Add(1)

	off, found, err := a.locate(k, false)
	if err != nil {
		return err
	}
	if !found {
		if a.verbose {
			a.logf("harr: UNSET.MISSING %q", k)
		}
		return nil
	}
	was, err := a.markUnset(off)
	if err != nil {
		return err
	}
	if a.verbose {
		if was {
			a.logf("harr: UNSET %q", k)
		} else {
			a.logf("harr: UNSET.MISSING %q", k)
		}
	}
	return nil
}
