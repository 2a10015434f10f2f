package harr

import "encoding/binary"

const (
	magic = "HARR"

	formatVer1      = 1
	formatVerLatest = formatVer1

	headerSize = 12 // magic (4) + version (4) + item count (4)
	nodeSize   = 13 // type (1) + value ptr (4) + child0 ptr (4) + child1 ptr (4)
	rootOffset = headerSize

	blockHeaderSize = 8 // capacity (4) + used (4)

	countOffset = 8 // item count within the header

	// Offsets of node record fields relative to the node offset.
	nodeTypeOff  = 0
	nodeValueOff = 1
	nodeChildOff = 5 // child0 at +5, child1 at +9
)

// node is the decoded form of a 13-byte trie node record.
type node struct {
	typ    ValueType
	value  uint32
	childs [2]uint32
}

func decodeNode(b []byte) node {
	return node{
		typ:    ValueType(b[0]),
		value:  binary.LittleEndian.Uint32(b[nodeValueOff:]),
		childs: [2]uint32{binary.LittleEndian.Uint32(b[nodeChildOff:]), binary.LittleEndian.Uint32(b[nodeChildOff+4:])},
	}
}

// childSlot returns the absolute offset of the child pointer selected by bit
// within the node at off.
func childSlot(off uint32, bit byte) uint32 {
	return off + nodeChildOff + 4*uint32(bit)
}

func putHeader(b []byte, count uint32) {
	copy(b, magic)
	binary.LittleEndian.PutUint32(b[4:], formatVer1)
	binary.LittleEndian.PutUint32(b[countOffset:], count)
}

// parseHeader validates the fixed header and returns the item count.
func parseHeader(b []byte) (uint32, error) {
	if string(b[:4]) != magic {
		return 0, ErrNotAHugeArray
	}
	if ver := binary.LittleEndian.Uint32(b[4:]); ver != formatVer1 {
		return 0, ErrIncompatibleVersion
	}
	return binary.LittleEndian.Uint32(b[countOffset:]), nil
}
