// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// DefaultMaxDepth is the container nesting limit used when
// [DecodeOptions.MaxDepth] is zero. Each nested array or map level
// costs one level of decoder recursion, so the limit bounds stack
// growth on hostile input. A thousand levels is far beyond any data
// that is not specifically constructed to nest.
const DefaultMaxDepth = 1000

// maxPreallocElements caps the capacity hint for container
// allocation. Element counts come from the wire, and while a count
// can never exceed the remaining input length (checked before
// allocating), a small input can still declare millions of elements.
// Containers larger than the cap grow through append instead.
const maxPreallocElements = 1024

// DecodeOptions adjusts decoding limits. The zero value is ready to
// use and applies the package defaults.
type DecodeOptions struct {
	// MaxDepth is the container nesting limit. Input nested deeper
	// fails with [ErrDepthExceeded]. Zero means [DefaultMaxDepth].
	MaxDepth int
}

// Parse decodes data as exactly one MessagePack value. Input that
// ends early, input with bytes left over after the value, and input
// that is not well-formed MessagePack all fail with a [*DecodeError].
//
// For buffers holding several concatenated values, use [ParseFirst].
func Parse(data []byte) (Value, error) {
	return ParseWithOptions(data, DecodeOptions{})
}

// ParseWithOptions is [Parse] with explicit limits.
func ParseWithOptions(data []byte, options DecodeOptions) (Value, error) {
	value, rest, err := ParseFirstWithOptions(data, options)
	if err != nil {
		return Value{}, err
	}
	if len(rest) > 0 {
		return Value{}, &DecodeError{Offset: len(data) - len(rest), Err: ErrTrailingData}
	}
	return value, nil
}

// ParseFirst decodes the first MessagePack value in data and returns
// it along with the unconsumed remainder. Use it to walk a buffer of
// back-to-back values:
//
//	for len(data) > 0 {
//	    value, rest, err := msgpack.ParseFirst(data)
//	    if err != nil {
//	        return err
//	    }
//	    handle(value)
//	    data = rest
//	}
func ParseFirst(data []byte) (Value, []byte, error) {
	return ParseFirstWithOptions(data, DecodeOptions{})
}

// ParseFirstWithOptions is [ParseFirst] with explicit limits.
func ParseFirstWithOptions(data []byte, options DecodeOptions) (Value, []byte, error) {
	maxDepth := options.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	d := &decoder{data: data, maxDepth: maxDepth}
	value, err := d.value(0)
	if err != nil {
		return Value{}, nil, err
	}
	return value, data[d.offset:], nil
}

// decoder is a cursor over one input buffer. Offsets only move
// forward, and every read checks the remaining length first, so a
// malformed length field can never index outside the buffer.
type decoder struct {
	data     []byte
	offset   int
	maxDepth int
}

// fail builds the package's uniform decode error.
func (d *decoder) fail(offset int, sentinel error) error {
	return &DecodeError{Offset: offset, Err: sentinel}
}

// value decodes one value at the cursor. depth is the number of
// enclosing containers; the top-level call passes zero.
func (d *decoder) value(depth int) (Value, error) {
	tagOffset := d.offset
	if tagOffset >= len(d.data) {
		return Value{}, d.fail(tagOffset, ErrUnexpectedEnd)
	}
	tag := d.data[tagOffset]
	d.offset++

	// Fix families: the tag byte carries the payload or length
	// itself. These cover 0x00-0xbf and 0xe0-0xff.
	switch {
	case tag <= maxPositiveFixint:
		return Int(int64(tag)), nil
	case tag >= 0xe0:
		return Int(int64(int8(tag))), nil
	case tag < fixarrayBase:
		return d.mapValue(tagOffset, uint64(tag&0x0f), depth)
	case tag < fixstrBase:
		return d.arrayValue(tagOffset, uint64(tag&0x0f), depth)
	case tag < tagNil:
		return d.stringValue(uint64(tag & 0x1f))
	}

	switch tag {
	case tagNil:
		return Nil(), nil
	case tagFalse:
		return Bool(false), nil
	case tagTrue:
		return Bool(true), nil

	case tagUint8:
		b, err := d.readUint8()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(b)), nil
	case tagUint16:
		u, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(u)), nil
	case tagUint32:
		u, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(u)), nil
	case tagUint64:
		u, err := d.readUint64()
		if err != nil {
			return Value{}, err
		}
		if u > math.MaxInt64 {
			return Value{}, d.fail(tagOffset, ErrIntRange)
		}
		return Int(int64(u)), nil

	case tagInt8:
		b, err := d.readUint8()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(int8(b))), nil
	case tagInt16:
		u, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(int16(u))), nil
	case tagInt32:
		u, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(int32(u))), nil
	case tagInt64:
		u, err := d.readUint64()
		if err != nil {
			return Value{}, err
		}
		return Int(int64(u)), nil

	case tagFloat32:
		u, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return Float(float64(math.Float32frombits(u))), nil
	case tagFloat64:
		u, err := d.readUint64()
		if err != nil {
			return Value{}, err
		}
		return Float(math.Float64frombits(u)), nil

	case tagStr8:
		length, err := d.readUint8()
		if err != nil {
			return Value{}, err
		}
		return d.stringValue(uint64(length))
	case tagStr16:
		length, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return d.stringValue(uint64(length))
	case tagStr32:
		length, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return d.stringValue(uint64(length))

	case tagBin8:
		length, err := d.readUint8()
		if err != nil {
			return Value{}, err
		}
		return d.binaryValue(uint64(length))
	case tagBin16:
		length, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return d.binaryValue(uint64(length))
	case tagBin32:
		length, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return d.binaryValue(uint64(length))

	case tagArray16:
		count, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return d.arrayValue(tagOffset, uint64(count), depth)
	case tagArray32:
		count, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return d.arrayValue(tagOffset, uint64(count), depth)

	case tagMap16:
		count, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return d.mapValue(tagOffset, uint64(count), depth)
	case tagMap32:
		count, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return d.mapValue(tagOffset, uint64(count), depth)

	case tagFixExt1:
		return d.extensionValue(1)
	case tagFixExt2:
		return d.extensionValue(2)
	case tagFixExt4:
		return d.extensionValue(4)
	case tagFixExt8:
		return d.extensionValue(8)
	case tagFixExt16:
		return d.extensionValue(16)
	case tagExt8:
		length, err := d.readUint8()
		if err != nil {
			return Value{}, err
		}
		return d.extensionValue(uint64(length))
	case tagExt16:
		length, err := d.readUint16()
		if err != nil {
			return Value{}, err
		}
		return d.extensionValue(uint64(length))
	case tagExt32:
		length, err := d.readUint32()
		if err != nil {
			return Value{}, err
		}
		return d.extensionValue(uint64(length))

	default:
		// Every byte value except the reserved 0xc1 is assigned a
		// meaning above.
		return Value{}, d.fail(tagOffset, ErrUnknownTag)
	}
}

// stringValue decodes a string payload of the given byte length at
// the cursor, enforcing UTF-8 validity.
func (d *decoder) stringValue(length uint64) (Value, error) {
	payloadOffset := d.offset
	payload, err := d.readBytes(length)
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(payload) {
		return Value{}, d.fail(payloadOffset, ErrInvalidString)
	}
	return String(string(payload)), nil
}

// binaryValue decodes a binary payload of the given length at the
// cursor. The payload is copied out of the input buffer so the
// returned Value does not alias caller memory.
func (d *decoder) binaryValue(length uint64) (Value, error) {
	payload, err := d.readBytes(length)
	if err != nil {
		return Value{}, err
	}
	return Binary(append([]byte(nil), payload...)), nil
}

// extensionValue decodes an extension body at the cursor: the type
// byte, then a payload of the given length. The length has already
// been consumed, either implied by a fixext tag or read from a sized
// ext header.
func (d *decoder) extensionValue(length uint64) (Value, error) {
	typeByte, err := d.readUint8()
	if err != nil {
		return Value{}, err
	}
	payload, err := d.readBytes(length)
	if err != nil {
		return Value{}, err
	}
	return Ext(int8(typeByte), append([]byte(nil), payload...)), nil
}

// arrayValue decodes count elements at the cursor into an array.
// tagOffset is the position of the array's tag byte, used for error
// reporting.
func (d *decoder) arrayValue(tagOffset int, count uint64, depth int) (Value, error) {
	if depth >= d.maxDepth {
		return Value{}, d.fail(tagOffset, ErrDepthExceeded)
	}
	// Each element is at least one byte, so a count beyond the
	// remaining length can never be satisfied. Failing here keeps a
	// short input with a huge declared count from allocating first.
	if count > uint64(len(d.data)-d.offset) {
		return Value{}, d.fail(tagOffset, ErrUnexpectedEnd)
	}

	capacity := int(count)
	if capacity > maxPreallocElements {
		capacity = maxPreallocElements
	}
	elements := make([]Value, 0, capacity)
	for i := uint64(0); i < count; i++ {
		element, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}
	return Array(elements...), nil
}

// mapValue decodes count key/value pairs at the cursor into a map,
// preserving wire order and any duplicate keys.
func (d *decoder) mapValue(tagOffset int, count uint64, depth int) (Value, error) {
	if depth >= d.maxDepth {
		return Value{}, d.fail(tagOffset, ErrDepthExceeded)
	}
	// A pair needs at least two bytes (one per value).
	if count > uint64(len(d.data)-d.offset)/2 {
		return Value{}, d.fail(tagOffset, ErrUnexpectedEnd)
	}

	capacity := int(count)
	if capacity > maxPreallocElements {
		capacity = maxPreallocElements
	}
	pairs := make([]Pair, 0, capacity)
	for i := uint64(0); i < count; i++ {
		key, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		value, err := d.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return Map(pairs...), nil
}

// readUint8 consumes one byte at the cursor.
func (d *decoder) readUint8() (uint8, error) {
	if len(d.data)-d.offset < 1 {
		return 0, d.fail(d.offset, ErrUnexpectedEnd)
	}
	b := d.data[d.offset]
	d.offset++
	return b, nil
}

// readUint16 consumes a big-endian uint16 at the cursor.
func (d *decoder) readUint16() (uint16, error) {
	if len(d.data)-d.offset < 2 {
		return 0, d.fail(d.offset, ErrUnexpectedEnd)
	}
	u := binary.BigEndian.Uint16(d.data[d.offset:])
	d.offset += 2
	return u, nil
}

// readUint32 consumes a big-endian uint32 at the cursor.
func (d *decoder) readUint32() (uint32, error) {
	if len(d.data)-d.offset < 4 {
		return 0, d.fail(d.offset, ErrUnexpectedEnd)
	}
	u := binary.BigEndian.Uint32(d.data[d.offset:])
	d.offset += 4
	return u, nil
}

// readUint64 consumes a big-endian uint64 at the cursor.
func (d *decoder) readUint64() (uint64, error) {
	if len(d.data)-d.offset < 8 {
		return 0, d.fail(d.offset, ErrUnexpectedEnd)
	}
	u := binary.BigEndian.Uint64(d.data[d.offset:])
	d.offset += 8
	return u, nil
}

// readBytes consumes length bytes at the cursor and returns them as a
// subslice of the input. Callers that retain the bytes copy them
// first. The length is compared in uint64 so a 32-bit declared length
// near 4 GiB cannot wrap on conversion.
func (d *decoder) readBytes(length uint64) ([]byte, error) {
	if length > uint64(len(d.data)-d.offset) {
		return nil, d.fail(d.offset, ErrUnexpectedEnd)
	}
	payload := d.data[d.offset : d.offset+int(length)]
	d.offset += int(length)
	return payload, nil
}
