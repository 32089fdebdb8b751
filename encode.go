// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode returns the MessagePack encoding of v. Encoding is total and
// deterministic: every Value encodes, and equal values produce
// identical bytes.
//
// The output is canonical. Each value takes the smallest form that can
// represent it: integers prefer the fixint range, then one-byte, then
// wider families; floats narrow to float32 when the narrowing is
// bit-exact; strings, arrays, and maps prefer their fix forms;
// extension payloads of exactly 1, 2, 4, 8, or 16 bytes take the
// corresponding fixext form.
//
// The only limit is the wire format's own: a string, binary, or
// extension payload over 4 GiB, or a container with more than 2^32-1
// entries, cannot be represented and panics. Inputs of that size are a
// programming error, not a data error.
func (v Value) Encode() []byte {
	return v.AppendEncode(nil)
}

// AppendEncode appends the MessagePack encoding of v to dst and
// returns the extended slice. This is the allocation-friendly form of
// [Value.Encode] for callers assembling several values into one
// buffer.
func (v Value) AppendEncode(dst []byte) []byte {
	switch v.kind {
	case KindNil:
		return append(dst, tagNil)

	case KindBool:
		if v.num != 0 {
			return append(dst, tagTrue)
		}
		return append(dst, tagFalse)

	case KindInt:
		return appendInt(dst, int64(v.num))

	case KindFloat:
		return appendFloat(dst, math.Float64frombits(v.num))

	case KindString:
		return appendString(dst, v.str)

	case KindBinary:
		return appendBinary(dst, v.bin)

	case KindArray:
		dst = appendArrayHeader(dst, len(v.elems))
		for _, element := range v.elems {
			dst = element.AppendEncode(dst)
		}
		return dst

	case KindMap:
		dst = appendMapHeader(dst, len(v.pairs))
		for _, pair := range v.pairs {
			dst = pair.Key.AppendEncode(dst)
			dst = pair.Value.AppendEncode(dst)
		}
		return dst

	case KindExtension:
		return appendExtension(dst, v.extType, v.bin)

	default:
		// The constructors only produce the kinds above and the zero
		// Value is KindNil.
		panic(fmt.Sprintf("msgpack: corrupt Value kind %d", uint8(v.kind)))
	}
}

// appendInt encodes an integer in its smallest form: fixint when the
// value fits, otherwise the unsigned family for non-negative values
// and the signed family for negative ones, at the narrowest width that
// holds the value.
func appendInt(dst []byte, value int64) []byte {
	if value >= 0 {
		switch {
		case value <= maxPositiveFixint:
			return append(dst, byte(value))
		case value <= math.MaxUint8:
			return append(dst, tagUint8, byte(value))
		case value <= math.MaxUint16:
			return binary.BigEndian.AppendUint16(append(dst, tagUint16), uint16(value))
		case value <= math.MaxUint32:
			return binary.BigEndian.AppendUint32(append(dst, tagUint32), uint32(value))
		default:
			return binary.BigEndian.AppendUint64(append(dst, tagUint64), uint64(value))
		}
	}
	switch {
	case value >= minNegativeFixint:
		return append(dst, byte(value))
	case value >= math.MinInt8:
		return append(dst, tagInt8, byte(value))
	case value >= math.MinInt16:
		return binary.BigEndian.AppendUint16(append(dst, tagInt16), uint16(value))
	case value >= math.MinInt32:
		return binary.BigEndian.AppendUint32(append(dst, tagInt32), uint32(value))
	default:
		return binary.BigEndian.AppendUint64(append(dst, tagInt64), uint64(value))
	}
}

// appendFloat encodes a float as float32 when narrowing loses nothing,
// measured on the bit pattern so the rule covers NaN and signed zero
// uniformly, and as float64 otherwise.
func appendFloat(dst []byte, value float64) []byte {
	narrowed := float32(value)
	if math.Float64bits(float64(narrowed)) == math.Float64bits(value) {
		return binary.BigEndian.AppendUint32(append(dst, tagFloat32), math.Float32bits(narrowed))
	}
	return binary.BigEndian.AppendUint64(append(dst, tagFloat64), math.Float64bits(value))
}

// appendString encodes a string header at the smallest width for the
// payload's byte length, then the payload.
func appendString(dst []byte, value string) []byte {
	length := len(value)
	switch {
	case length <= maxFixstrLen:
		dst = append(dst, fixstrBase|byte(length))
	case length <= math.MaxUint8:
		dst = append(dst, tagStr8, byte(length))
	case length <= math.MaxUint16:
		dst = binary.BigEndian.AppendUint16(append(dst, tagStr16), uint16(length))
	case uint64(length) <= math.MaxUint32:
		dst = binary.BigEndian.AppendUint32(append(dst, tagStr32), uint32(length))
	default:
		panic("msgpack: string exceeds the 4 GiB wire limit")
	}
	return append(dst, value...)
}

// appendBinary encodes a binary header at the smallest width for the
// payload length, then the payload. There is no fix form for binary.
func appendBinary(dst []byte, value []byte) []byte {
	length := len(value)
	switch {
	case length <= math.MaxUint8:
		dst = append(dst, tagBin8, byte(length))
	case length <= math.MaxUint16:
		dst = binary.BigEndian.AppendUint16(append(dst, tagBin16), uint16(length))
	case uint64(length) <= math.MaxUint32:
		dst = binary.BigEndian.AppendUint32(append(dst, tagBin32), uint32(length))
	default:
		panic("msgpack: binary exceeds the 4 GiB wire limit")
	}
	return append(dst, value...)
}

// appendArrayHeader encodes an array header for count elements. The
// elements themselves follow as independently encoded values.
func appendArrayHeader(dst []byte, count int) []byte {
	switch {
	case count <= maxFixarrayLen:
		return append(dst, fixarrayBase|byte(count))
	case count <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, tagArray16), uint16(count))
	case uint64(count) <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, tagArray32), uint32(count))
	default:
		panic("msgpack: array exceeds the wire format's entry limit")
	}
}

// appendMapHeader encodes a map header for count key/value pairs. The
// pairs follow as alternating encoded keys and values.
func appendMapHeader(dst []byte, count int) []byte {
	switch {
	case count <= maxFixmapLen:
		return append(dst, fixmapBase|byte(count))
	case count <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, tagMap16), uint16(count))
	case uint64(count) <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, tagMap32), uint32(count))
	default:
		panic("msgpack: map exceeds the wire format's entry limit")
	}
}

// appendExtension encodes an extension value: the fixext form when the
// payload is exactly 1, 2, 4, 8, or 16 bytes, otherwise a sized ext
// header, then the type byte, then the payload.
func appendExtension(dst []byte, extType int8, data []byte) []byte {
	switch len(data) {
	case 1:
		dst = append(dst, tagFixExt1)
	case 2:
		dst = append(dst, tagFixExt2)
	case 4:
		dst = append(dst, tagFixExt4)
	case 8:
		dst = append(dst, tagFixExt8)
	case 16:
		dst = append(dst, tagFixExt16)
	default:
		length := len(data)
		switch {
		case length <= math.MaxUint8:
			dst = append(dst, tagExt8, byte(length))
		case length <= math.MaxUint16:
			dst = binary.BigEndian.AppendUint16(append(dst, tagExt16), uint16(length))
		case uint64(length) <= math.MaxUint32:
			dst = binary.BigEndian.AppendUint32(append(dst, tagExt32), uint32(length))
		default:
			panic("msgpack: extension exceeds the 4 GiB wire limit")
		}
	}
	dst = append(dst, byte(extType))
	return append(dst, data...)
}
