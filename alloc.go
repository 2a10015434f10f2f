package harr

import "encoding/binary"

// writeTypedValue assigns a value to the node at nodeOff, following the
// mutation protocol of the format:
//
//  1. Singleton-to-same-singleton writes are no-ops (the tag already encodes
//     the value).
//  2. Serialized payloads reuse the node's existing value block in place
//     when they fit its capacity; otherwise a fresh block is appended and
//     the old one is abandoned.
//  3. The node record is rewritten minimally: tag byte, pointer word, or
//     both, whichever actually changed.
//  4. The header item count is adjusted when the node transitions between
//     unset and set, and the file is flushed.
//
// A failed append truncates the file back to the pre-operation watermark;
// at that point the node record has not been touched, so the trie remains
// consistent.
func (a *Array) writeTypedValue(nodeOff uint32, v any) error {
	var hdr [5]byte
	if err := a.readAt(hdr[:], nodeOff); err != nil {
		return err
	}
	oldTag := ValueType(hdr[0])
	oldPtr := binary.LittleEndian.Uint32(hdr[1:])

	newTag := valueTypeOf(v)
	newPtr := oldPtr

	if oldTag == newTag && newTag != TypeSerialized {
		return nil
	}

	if newTag == TypeSerialized {
		buf := valueBytesPool.Get().([]byte)
		data, err := a.enc.EncodeValue(buf[:0], v)
		if err != nil {
			releaseValueBytes(buf)
			return err
		}
		err = a.writeBlock(oldPtr, data, &newPtr)
		releaseValueBytes(data)
		if err != nil {
			return err
		}
	}

	if err := a.updateNodeValue(nodeOff, oldTag, oldPtr, newTag, newPtr); err != nil {
		return err
	}
	if err := a.adjustCount(oldTag, newTag); err != nil {
		return err
	}
	return a.flush()
}

// writeBlock stores data into the block at oldPtr when it fits the block's
// capacity, or appends a new block at the watermark, updating *ptr.
func (a *Array) writeBlock(oldPtr uint32, data []byte, ptr *uint32) error {
	used := uint32(len(data))

	if oldPtr != 0 {
		capacity, err := a.readU32(oldPtr)
		if err != nil {
			return err
		}
		if capacity >= used {
			// In-place rewrite of {used, payload}; capacity stays.
			blk := make([]byte, 4+len(data))
			binary.LittleEndian.PutUint32(blk, used)
			copy(blk[4:], data)
			return a.writeAt(blk, oldPtr+4)
		}
	}

	start := a.fileEnd
	blk := make([]byte, blockHeaderSize+len(data))
	binary.LittleEndian.PutUint32(blk, used)
	binary.LittleEndian.PutUint32(blk[4:], used)
	copy(blk[blockHeaderSize:], data)
	if err := a.writeAt(blk, start); err != nil {
		a.truncateBack(start)
		return err
	}
	a.fileEnd = start + blockHeaderSize + used
	*ptr = start
	return nil
}

// updateNodeValue rewrites only the parts of the node record that changed.
func (a *Array) updateNodeValue(nodeOff uint32, oldTag ValueType, oldPtr uint32, newTag ValueType, newPtr uint32) error {
	tagChanged := oldTag != newTag
	ptrChanged := oldPtr != newPtr
	switch {
	case tagChanged && ptrChanged:
		var b [5]byte
		b[0] = byte(newTag)
		binary.LittleEndian.PutUint32(b[1:], newPtr)
		return a.writeAt(b[:], nodeOff)
	case tagChanged:
		return a.writeAt([]byte{byte(newTag)}, nodeOff)
	case ptrChanged:
		return a.writeU32(nodeOff+nodeValueOff, newPtr)
	}
	return nil
}

func (a *Array) adjustCount(oldTag, newTag ValueType) error {
	if oldTag == TypeUnset && newTag != TypeUnset {
		a.count++
		return a.persistCount()
	}
	if oldTag != TypeUnset && newTag == TypeUnset {
		a.count--
		return a.persistCount()
	}
	return nil
}

// markUnset clears the node's value, keeping the value block pointer so a
// later serialized write can reuse the block's capacity. Reports whether the
// node actually held a value.
func (a *Array) markUnset(nodeOff uint32) (bool, error) {
	var tag [1]byte
	if err := a.readAt(tag[:], nodeOff); err != nil {
		return false, err
	}
	if ValueType(tag[0]) == TypeUnset {
		return false, nil
	}
	if err := a.writeAt([]byte{byte(TypeUnset)}, nodeOff); err != nil {
		return false, err
	}
	a.count--
	if err := a.persistCount(); err != nil {
		return false, err
	}
	return true, a.flush()
}

// readNodeValue decodes the value held by a node. The caller filters out
// TypeUnset.
func (a *Array) readNodeValue(n node) (any, error) {
	if n.typ != TypeSerialized {
		return singletonValue(n.typ), nil
	}
	if n.value == 0 {
		return nil, fileErrf(a.path, 0, nil, "serialized node has no value block")
	}
	used, err := a.readU32(n.value + 4)
	if err != nil {
		return nil, err
	}
	if n.value+blockHeaderSize+used > a.fileEnd {
		return nil, fileErrf(a.path, int64(n.value), nil, "value block of %d bytes extends past end of file", used)
	}
	payload := make([]byte, used)
	if err := a.readAt(payload, n.value+blockHeaderSize); err != nil {
		return nil, err
	}
	return a.enc.DecodeValue(payload)
}
