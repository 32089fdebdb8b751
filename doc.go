// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgpack encodes and decodes MessagePack data through a
// dynamic value tree, for callers that do not know a message's shape
// ahead of time.
//
// The center of the package is [Value], a closed tagged union over the
// nine MessagePack variants: nil, boolean, integer, float, string,
// binary, array, map, and extension. Values are built with the
// constructor functions ([Nil], [Bool], [Int], [Float], [String],
// [Binary], [Array], [Map], [Ext]), inspected with the Is/As accessor
// pairs, and compared structurally with [Value.Equal].
//
// Encoding is total: every constructible Value has a wire
// representation, produced by [Value.Encode] or [Value.AppendEncode]
// with no error path. The encoder always emits the canonical form:
// the smallest width that can represent each value, preferring the
// single-byte fix families. The same tree therefore always produces
// identical bytes, which is what makes [Value.Hash] (BLAKE3 of the
// encoding) a usable content address.
//
// Decoding is strict: [Parse] consumes exactly one top-level value and
// rejects anything else with a typed error, whether truncated input,
// the reserved 0xc1 tag, invalid UTF-8 in strings, trailing bytes, or
// nesting beyond the configured depth limit. Every decode failure is a
// [*DecodeError] carrying the byte offset where decoding stopped and
// wrapping one of the package's sentinel errors for [errors.Is]
// dispatch. [ParseFirst] decodes the first value from a buffer of
// concatenated values and returns the remainder.
//
// The decoder accepts any well-formed MessagePack, including
// non-minimal integer widths produced by other encoders; re-encoding
// normalizes to canonical form. Maps decode to an ordered pair list
// ([Pair] slice) rather than a Go map: MessagePack permits duplicate
// and non-string keys, and wire order is preserved through a decode/
// encode round trip.
//
// All operations are pure transformations on in-memory buffers. There
// is no I/O, no shared state, and nothing blocks, so concurrent use on
// independent values needs no coordination.
package msgpack
