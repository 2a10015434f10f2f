package harr

// Clear resets the array to its freshly-initialized state: an empty header
// followed by a single empty root node. The implicit cursor is re-rooted.
func (a *Array) Clear() error {
	if a.closed {
		return ErrClosed
	}
	a.WriteCount.Add(1)

	if err := a.f.Truncate(0); err != nil {
		return fileErrf(a.path, 0, err, "truncate")
	}
	a.fileEnd = 0
	var b [headerSize + nodeSize]byte
	putHeader(b[:], 0)
	if err := a.writeAt(b[:], 0); err != nil {
		return err
	}
	a.fileEnd = headerSize + nodeSize
	a.count = 0
	a.cursor.SeekReset()
	if a.verbose {
		a.logf("harr: CLEAR")
	}
	return a.flush()
}

// Count returns the number of keys holding a value. It mirrors the item
// count persisted in the file header.
func (a *Array) Count() int {
	return int(a.count)
}
