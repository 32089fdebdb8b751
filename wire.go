// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

// MessagePack tag bytes. Every encoded value starts with one of these
// (or a byte from one of the fix ranges below), and all multi-byte
// length and payload fields that follow are big-endian. These values
// are wire constants fixed by the MessagePack format.
const (
	tagNil       = 0xc0
	tagNeverUsed = 0xc1 // reserved by the format, decode error
	tagFalse     = 0xc2
	tagTrue      = 0xc3
	tagBin8      = 0xc4
	tagBin16     = 0xc5
	tagBin32     = 0xc6
	tagExt8      = 0xc7
	tagExt16     = 0xc8
	tagExt32     = 0xc9
	tagFloat32   = 0xca
	tagFloat64   = 0xcb
	tagUint8     = 0xcc
	tagUint16    = 0xcd
	tagUint32    = 0xce
	tagUint64    = 0xcf
	tagInt8      = 0xd0
	tagInt16     = 0xd1
	tagInt32     = 0xd2
	tagInt64     = 0xd3
	tagFixExt1   = 0xd4
	tagFixExt2   = 0xd5
	tagFixExt4   = 0xd6
	tagFixExt8   = 0xd7
	tagFixExt16  = 0xd8
	tagStr8      = 0xd9
	tagStr16     = 0xda
	tagStr32     = 0xdb
	tagArray16   = 0xdc
	tagArray32   = 0xdd
	tagMap16     = 0xde
	tagMap32     = 0xdf
)

// Fix-family bases. The fix forms pack small payloads into the tag
// byte itself: 0x00-0x7f is a positive fixint (the value is the byte),
// 0xe0-0xff is a negative fixint (the byte read as int8), and the
// three container bases below carry the length or count in their low
// bits.
const (
	fixmapBase   = 0x80 // 0x80-0x8f, pair count in the low 4 bits
	fixarrayBase = 0x90 // 0x90-0x9f, element count in the low 4 bits
	fixstrBase   = 0xa0 // 0xa0-0xbf, byte length in the low 5 bits
)

// Fix-form capacity limits. Values at or below these encode in the
// single-byte fix form; larger ones take the smallest sized form that
// fits.
const (
	maxPositiveFixint = 0x7f
	minNegativeFixint = -32
	maxFixstrLen      = 31
	maxFixarrayLen    = 15
	maxFixmapLen      = 15
)
