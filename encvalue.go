package harr

import "reflect"

// ValueType is the one-byte discriminator stored in a trie node. The six
// singleton types encode their value entirely in the tag; only Serialized
// values occupy a value block.
type ValueType uint8

const (
	TypeUnset ValueType = iota
	TypeNull
	TypeFalse
	TypeTrue
	TypeZero
	TypeEmptyString
	TypeEmptyArray
	TypeSerialized
)

var valueTypeNames = [...]string{"UNSET", "NULL", "FALSE", "TRUE", "ZERO", "EMPTYSTR", "EMPTYARR", "SERIALIZED"}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "INVALID"
}

// valueTypeOf discriminates v into a tag. The match is strict: a non-zero
// number is never TypeZero, a float is never TypeZero even when it equals 0,
// a non-empty string is never TypeEmptyString.
func valueTypeOf(v any) ValueType {
	switch x := v.(type) {
	case nil:
		return TypeNull
	case bool:
		if x {
			return TypeTrue
		}
		return TypeFalse
	case int:
		if x == 0 {
			return TypeZero
		}
		return TypeSerialized
	case int64:
		if x == 0 {
			return TypeZero
		}
		return TypeSerialized
	case string:
		if x == "" {
			return TypeEmptyString
		}
		return TypeSerialized
	case []byte:
		if len(x) == 0 {
			return TypeEmptyString
		}
		return TypeSerialized
	case float32, float64:
		return TypeSerialized
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() == 0 {
			return TypeZero
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() == 0 {
			return TypeZero
		}
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return TypeEmptyArray
		}
	case reflect.String:
		if rv.Len() == 0 {
			return TypeEmptyString
		}
	}
	return TypeSerialized
}

// singletonValue returns the canonical value for a singleton tag. Callers
// must not pass TypeUnset or TypeSerialized.
func singletonValue(t ValueType) any {
	switch t {
	case TypeNull:
		return nil
	case TypeFalse:
		return false
	case TypeTrue:
		return true
	case TypeZero:
		return int64(0)
	case TypeEmptyString:
		return ""
	case TypeEmptyArray:
		return []any{}
	}
	panic("not a singleton value type")
}
