/*
Package harr implements a persistent array-like map backed by a single file,
organized as a binary trie over the bits of the key.

The map is meant for data sets too large for memory where each individual
value is small enough to serialize in one piece. Lookups and writes perform
random I/O proportional to the key length in bits; capacity is bounded only
by the 4 GiB file-offset limit of the format.

Keys can be byte strings, strings, booleans, integers (and integer-valued
floats), or nil. Values are arbitrary serializable values; six singleton
values (nil, false, true, zero, the empty string and the empty array) are
encoded in the trie node itself and never touch the serializer.

# File format (version 1)

All integers are little-endian. Pointers are absolute file offsets; zero
means “no pointer”.

**Header** (12 bytes at offset 0):
1. Magic "HARR" (4 bytes).
2. Format version (uint32), currently 1.
3. Item count (uint32), the number of trie nodes holding a value.

**Trie node** (13 bytes):
1. Value type (byte).
2. Value block pointer (uint32).
3. Child pointer for bit 0 (uint32).
4. Child pointer for bit 1 (uint32).

The root node sits at offset 12 and always exists. Key bits are consumed
MSB-first within each byte; each bit selects one of the two child pointers.
The empty key addresses the root directly, so nil and "" are the same key.

**Value block** (variable):
1. Capacity (uint32), payload bytes the block can hold.
2. Used (uint32), current payload length.
3. Payload (used bytes), the serialized value.

A node may keep its value block pointer after the value is unset or replaced
by a singleton; a later serialized write reuses the block in place when the
new payload fits its capacity. Abandoned blocks and trie nodes are never
reclaimed.

# Durability

Every mutation ends with an fdatasync-style flush; that flush is the
durability boundary. A write that fails midway truncates the file back to
the pre-operation watermark, so the header, trie and item count always
describe committed data only. There is no journal and no crash recovery
beyond that.

Single-process, single-writer use only. Open takes an advisory lock on the
file as a safety aid, but concurrent access remains undefined behavior.
*/
package harr
