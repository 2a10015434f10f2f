package harr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type encodingMethod int

const (
	MsgPack encodingMethod = iota
	JSON

	defaultValueEncoding = MsgPack
)

// EncodeValue serializes v, appending to buf. The encoding is deterministic
// (map keys sorted) so that rewriting an unchanged value produces identical
// bytes and reuses the existing block.
func (enc encodingMethod) EncodeValue(buf []byte, v any) ([]byte, error) {
	switch enc {
	case MsgPack:
		bb := bytesBuilder{buf}
		e := msgpack.GetEncoder()
		e.ResetDict(&bb, nil)
		e.SetSortMapKeys(true)
		err := e.Encode(v)
		msgpack.PutEncoder(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
		}
		return bb.Buf, nil
	case JSON:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %T to JSON: %w", v, err)
		}
		return appendRaw(buf, raw), nil
	default:
		panic("unsupported encoding")
	}
}

// DecodeValue deserializes a payload produced by EncodeValue into an untyped
// value. With MsgPack, integers come back as int64 and maps as
// map[string]any.
func (enc encodingMethod) DecodeValue(buf []byte) (any, error) {
	switch enc {
	case MsgPack:
		var r bytes.Reader
		r.Reset(buf)
		d := msgpack.GetDecoder()
		d.ResetDict(&r, nil)
		v, err := d.DecodeInterfaceLoose()
		msgpack.PutDecoder(d)
		if err != nil {
			return nil, fmt.Errorf("failed to decode msgpack value: %w", err)
		}
		return v, nil
	case JSON:
		var v any
		err := json.Unmarshal(buf, &v)
		if err != nil {
			return nil, fmt.Errorf("failed to decode JSON value: %w", err)
		}
		return v, nil
	default:
		panic("unsupported encoding")
	}
}
