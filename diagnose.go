// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// String renders v in diagnostic notation, a readable one-line form
// that preserves the wire's type distinctions where JSON cannot:
//
//	null  true  42  1.5  "text"  h'a1b2'  [1, "two"]  {"k": null}  ext(2, h'324a6711')
//
// Byte strings render as h'<hex>', extensions as ext(<type>, h'<hex>'),
// and floats always carry a decimal point or exponent so 1.0 stays
// distinguishable from the integer 1. Non-finite floats render as NaN,
// Infinity, and -Infinity. Map entries appear in wire order.
//
// The output is for inspection and logs. It is close to JSON for data
// that stays inside JSON's types, but it is not a serialization
// format; use [Value.Encode] for that.
func (v Value) String() string {
	var b strings.Builder
	v.writeNotation(&b)
	return b.String()
}

// Diagnose decodes data as exactly one MessagePack value and returns
// its diagnostic notation. Decode failures, including trailing bytes,
// return the decode error unchanged.
func Diagnose(data []byte) (string, error) {
	value, err := Parse(data)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// DiagnoseFirst returns the diagnostic notation of the first value in
// data along with the unconsumed remainder. Use it to render a buffer
// of concatenated values one line at a time.
func DiagnoseFirst(data []byte) (string, []byte, error) {
	value, rest, err := ParseFirst(data)
	if err != nil {
		return "", nil, err
	}
	return value.String(), rest, nil
}

func (v Value) writeNotation(b *strings.Builder) {
	switch v.kind {
	case KindNil:
		b.WriteString("null")

	case KindBool:
		if v.num != 0 {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case KindInt:
		b.WriteString(strconv.FormatInt(int64(v.num), 10))

	case KindFloat:
		writeFloatNotation(b, math.Float64frombits(v.num))

	case KindString:
		b.WriteString(strconv.Quote(v.str))

	case KindBinary:
		writeBytesNotation(b, v.bin)

	case KindArray:
		b.WriteByte('[')
		for i, element := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			element.writeNotation(b)
		}
		b.WriteByte(']')

	case KindMap:
		b.WriteByte('{')
		for i, pair := range v.pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			pair.Key.writeNotation(b)
			b.WriteString(": ")
			pair.Value.writeNotation(b)
		}
		b.WriteByte('}')

	case KindExtension:
		b.WriteString("ext(")
		b.WriteString(strconv.FormatInt(int64(v.extType), 10))
		b.WriteString(", ")
		writeBytesNotation(b, v.bin)
		b.WriteByte(')')
	}
}

// writeFloatNotation renders a float so that it never reads as an
// integer: the shortest decimal form, with ".0" appended when that
// form has neither a point nor an exponent.
func writeFloatNotation(b *strings.Builder, value float64) {
	switch {
	case math.IsNaN(value):
		b.WriteString("NaN")
	case math.IsInf(value, 1):
		b.WriteString("Infinity")
	case math.IsInf(value, -1):
		b.WriteString("-Infinity")
	default:
		formatted := strconv.FormatFloat(value, 'g', -1, 64)
		b.WriteString(formatted)
		if !strings.ContainsAny(formatted, ".eE") {
			b.WriteString(".0")
		}
	}
}

// writeBytesNotation renders a byte string as h'<hex>'.
func writeBytesNotation(b *strings.Builder, data []byte) {
	b.WriteString("h'")
	b.WriteString(hex.EncodeToString(data))
	b.WriteByte('\'')
}
