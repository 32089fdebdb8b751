// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"bytes"
	"fmt"
	"math"

	"github.com/zeebo/blake3"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	// KindNil is the absence of a value (wire tag 0xc0).
	KindNil Kind = iota

	// KindBool is a boolean (wire tags 0xc2 and 0xc3).
	KindBool

	// KindInt is a signed 64-bit integer. On the wire it covers both
	// the signed and unsigned MessagePack families; see [Int].
	KindInt

	// KindFloat is a 64-bit IEEE 754 float. Wire float32 values widen
	// losslessly to this variant on decode.
	KindFloat

	// KindString is a UTF-8 text string.
	KindString

	// KindBinary is an opaque byte sequence.
	KindBinary

	// KindArray is an ordered sequence of values.
	KindArray

	// KindMap is an ordered sequence of key/value pairs. Keys are
	// arbitrary values, not just strings, and duplicates are
	// representable; see [Map].
	KindMap

	// KindExtension is an application-defined type: an int8 type
	// identifier plus an opaque payload.
	KindExtension
)

// String returns the lowercase variant name, e.g. "int" or "map".
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindExtension:
		return "extension"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Value is one node of a dynamically-typed MessagePack tree. It holds
// exactly one of the nine variants enumerated by [Kind]; which one is
// reported by [Value.Kind] and the Is predicates.
//
// The zero Value is nil (equivalent to [Nil]). Values form finite
// trees: containers hold their children by value and nothing prevents
// sharing a subtree between two parents, but a Value never contains
// itself.
//
// Values are not mutated by any method in this package. Treat them as
// immutable after construction: the byte slices passed to [Binary] and
// [Ext] and returned by the As extractors are not copied, so writing
// through them changes what the Value encodes to.
type Value struct {
	kind    Kind
	extType int8

	// num holds the payload for the fixed-size variants: the integer
	// in two's complement for KindInt, the IEEE 754 bit pattern for
	// KindFloat, and 0 or 1 for KindBool.
	num uint64

	str   string
	bin   []byte
	elems []Value
	pairs []Pair
}

// Pair is a single map entry. MessagePack map keys are full values
// (strings, integers, even containers), and entry order is significant,
// so maps are pair slices rather than Go maps.
type Pair struct {
	// Key is the entry's key.
	Key Value
	// Value is the entry's value.
	Value Value
}

// Extension is the payload of a [KindExtension] value: an
// application-defined type identifier and opaque bytes. Type
// identifiers below zero are reserved by the MessagePack format for
// predefined extensions; this package carries them through without
// interpretation.
type Extension struct {
	// Type is the application-defined type identifier.
	Type int8
	// Data is the opaque payload.
	Data []byte
}

// Nil returns the nil value.
func Nil() Value {
	return Value{kind: KindNil}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	var num uint64
	if v {
		num = 1
	}
	return Value{kind: KindBool, num: num}
}

// Int returns an integer value. The int64 range covers every wire
// integer this package decodes; unsigned wire values above
// [math.MaxInt64] are rejected at decode time with [ErrIntRange]
// rather than represented here.
func Int(v int64) Value {
	return Value{kind: KindInt, num: uint64(v)}
}

// Float returns a float value. Wire width is chosen at encode time:
// values that survive a round trip through float32 bit-exactly are
// encoded as float32, everything else as float64.
func Float(v float64) Value {
	return Value{kind: KindFloat, num: math.Float64bits(v)}
}

// String returns a text string value. The string must be valid UTF-8
// for the encoding to be decodable by this package (the encoder does
// not check; the decoder enforces it).
func String(v string) Value {
	return Value{kind: KindString, str: v}
}

// Binary returns a byte string value. The slice is retained, not
// copied.
func Binary(v []byte) Value {
	return Value{kind: KindBinary, bin: v}
}

// Array returns an array value holding the given elements. The slice
// backing the variadic arguments is retained, not copied.
func Array(elements ...Value) Value {
	return Value{kind: KindArray, elems: elements}
}

// Map returns a map value holding the given entries in the given
// order. The slice backing the variadic arguments is retained, not
// copied. Duplicate keys are preserved as-is: this package never
// deduplicates or reorders map entries.
func Map(pairs ...Pair) Value {
	return Value{kind: KindMap, pairs: pairs}
}

// Ext returns an extension value with the given type identifier and
// payload. The payload slice is retained, not copied.
func Ext(extType int8, data []byte) Value {
	return Value{kind: KindExtension, extType: extType, bin: data}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil reports whether v is the nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// IsBool reports whether v is a boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// IsInt reports whether v is an integer.
func (v Value) IsInt() bool { return v.kind == KindInt }

// IsFloat reports whether v is a float.
func (v Value) IsFloat() bool { return v.kind == KindFloat }

// IsString reports whether v is a text string.
func (v Value) IsString() bool { return v.kind == KindString }

// IsBinary reports whether v is a byte string.
func (v Value) IsBinary() bool { return v.kind == KindBinary }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsMap reports whether v is a map.
func (v Value) IsMap() bool { return v.kind == KindMap }

// IsExtension reports whether v is an extension.
func (v Value) IsExtension() bool { return v.kind == KindExtension }

// AsBool returns the boolean payload. Any other variant returns a
// [*TypeError].
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &TypeError{Want: KindBool, Got: v.kind}
	}
	return v.num != 0, nil
}

// AsInt returns the integer payload. Any other variant returns a
// [*TypeError]; in particular floats are never silently truncated.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, &TypeError{Want: KindInt, Got: v.kind}
	}
	return int64(v.num), nil
}

// AsFloat returns the float payload. Any other variant returns a
// [*TypeError]; in particular integers are never silently widened.
func (v Value) AsFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, &TypeError{Want: KindFloat, Got: v.kind}
	}
	return math.Float64frombits(v.num), nil
}

// AsString returns the text string payload. Any other variant returns
// a [*TypeError].
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", &TypeError{Want: KindString, Got: v.kind}
	}
	return v.str, nil
}

// AsBinary returns the byte string payload (the stored slice, not a
// copy). Any other variant returns a [*TypeError].
func (v Value) AsBinary() ([]byte, error) {
	if v.kind != KindBinary {
		return nil, &TypeError{Want: KindBinary, Got: v.kind}
	}
	return v.bin, nil
}

// AsArray returns the element slice (the stored slice, not a copy).
// Any other variant returns a [*TypeError].
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, &TypeError{Want: KindArray, Got: v.kind}
	}
	return v.elems, nil
}

// AsMap returns the entry slice in wire order (the stored slice, not a
// copy). Any other variant returns a [*TypeError].
func (v Value) AsMap() ([]Pair, error) {
	if v.kind != KindMap {
		return nil, &TypeError{Want: KindMap, Got: v.kind}
	}
	return v.pairs, nil
}

// AsExtension returns the extension payload (sharing the stored data
// slice). Any other variant returns a [*TypeError].
func (v Value) AsExtension() (Extension, error) {
	if v.kind != KindExtension {
		return Extension{}, &TypeError{Want: KindExtension, Got: v.kind}
	}
	return Extension{Type: v.extType, Data: v.bin}, nil
}

// Equal reports whether v and other are structurally equal: same
// variant and recursively equal payloads. Arrays compare element by
// element, maps compare pair by pair in order (two maps with the same
// entries in different order are not equal, matching their distinct
// wire encodings).
//
// Floats compare by IEEE 754 bit pattern, not by ==. NaN is therefore
// equal to an identical NaN, and positive and negative zero differ.
// The payoff is that Equal agrees exactly with encoding equality:
// v.Equal(w) if and only if bytes.Equal(v.Encode(), w.Encode()).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindInt, KindFloat:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindBinary:
		return bytes.Equal(v.bin, other.bin)
	case KindArray:
		if len(v.elems) != len(other.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.pairs) != len(other.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(other.pairs[i].Key) {
				return false
			}
			if !v.pairs[i].Value.Equal(other.pairs[i].Value) {
				return false
			}
		}
		return true
	case KindExtension:
		return v.extType == other.extType && bytes.Equal(v.bin, other.bin)
	default:
		return false
	}
}

// Hash returns the BLAKE3 digest of v's canonical encoding. Because
// encoding is deterministic, structurally equal values always hash
// equal, so the digest can serve as a content address or a map key for
// value-identity lookups.
func (v Value) Hash() [32]byte {
	return blake3.Sum256(v.Encode())
}
