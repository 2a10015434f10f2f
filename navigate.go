package harr

// locate walks the trie from the root along the bits of key and returns the
// offset of the addressed node. With create set, missing nodes along the
// path are appended; otherwise a missing child ends the walk with found ==
// false.
//
// If an allocation fails partway, the file is truncated back to the
// pre-call watermark before the error is returned, so no half-linked nodes
// survive.
func (a *Array) locate(key []byte, create bool) (off uint32, found bool, err error) {
	cur := uint32(rootOffset)
	savedEnd := a.fileEnd
	var firstSlot uint32 // parent slot that links the first appended node

	n := keyBitLen(key)
	for i := 0; i < n; i++ {
		slot := childSlot(cur, keyBit(key, i))
		child, err := a.readU32(slot)
		if err != nil {
			return 0, false, err
		}
		if child == 0 {
			if !create {
				return 0, false, nil
			}
			if firstSlot == 0 {
				firstSlot = slot
			}
			child, err = a.appendNode(slot)
			if err != nil {
				_ = a.writeU32(firstSlot, 0)
				a.truncateBack(savedEnd)
				return 0, false, err
			}
		}
		cur = child
	}
	return cur, true, nil
}

// appendNode allocates a zeroed node at the watermark and links it into the
// parent's child slot.
func (a *Array) appendNode(slot uint32) (uint32, error) {
	off := a.fileEnd
	var zero [nodeSize]byte
	if err := a.writeAt(zero[:], off); err != nil {
		return 0, err
	}
	a.fileEnd = off + nodeSize
	if err := a.writeU32(slot, off); err != nil {
		return 0, err
	}
	return off, nil
}
