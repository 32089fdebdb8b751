// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"errors"
	"fmt"
)

// Decode failure classes. Every decode error returned by this package
// is a [*DecodeError] wrapping exactly one of these sentinels, so
// callers branch on the class with [errors.Is] and read the position
// from the DecodeError.
var (
	// ErrUnexpectedEnd: the input ended before the value it declares.
	// Truncating a valid encoding at any byte boundary produces this.
	ErrUnexpectedEnd = errors.New("msgpack: unexpected end of input")

	// ErrUnknownTag: the reserved tag byte 0xc1, which no MessagePack
	// value family uses.
	ErrUnknownTag = errors.New("msgpack: unknown tag")

	// ErrInvalidString: a string payload that is not valid UTF-8.
	// Byte strings with arbitrary contents belong in the binary
	// family, not the string family.
	ErrInvalidString = errors.New("msgpack: invalid UTF-8 in string")

	// ErrTrailingData: bytes remain after one complete top-level
	// value. Returned by [Parse] only; [ParseFirst] hands the
	// remainder back instead.
	ErrTrailingData = errors.New("msgpack: trailing data after value")

	// ErrDepthExceeded: container nesting deeper than the limit in
	// [DecodeOptions]. Bounds stack growth on hostile input.
	ErrDepthExceeded = errors.New("msgpack: nesting depth limit exceeded")

	// ErrIntRange: a wire uint64 above [math.MaxInt64]. The integer
	// variant is int64; see [Int].
	ErrIntRange = errors.New("msgpack: unsigned integer overflows int64")
)

// DecodeError reports a failure to decode MessagePack data. It wraps
// one of the package's sentinel errors and records where in the input
// decoding stopped. Callers classify with [errors.Is] against the
// sentinels and recover the position with [errors.As]:
//
//	_, err := msgpack.Parse(data)
//	if errors.Is(err, msgpack.ErrUnexpectedEnd) {
//	    // input truncated
//	}
//	var decodeErr *msgpack.DecodeError
//	if errors.As(err, &decodeErr) {
//	    log.Printf("bad input at byte %d", decodeErr.Offset)
//	}
type DecodeError struct {
	// Offset is the byte position in the input at which decoding
	// stopped: the offending tag byte for unknown tags, range and
	// depth failures, the start of the incomplete field for truncated
	// input, and the first unconsumed byte for trailing data.
	Offset int

	// Err is the sentinel identifying the failure class.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at byte %d", e.Err, e.Offset)
}

// Unwrap returns the wrapped sentinel so [errors.Is] matches.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TypeError reports an As extractor called on a [Value] holding a
// different variant. It records both sides so the message names the
// actual mismatch:
//
//	count, err := value.AsInt()
//	var typeErr *msgpack.TypeError
//	if errors.As(err, &typeErr) {
//	    log.Printf("field holds %s, expected %s", typeErr.Got, typeErr.Want)
//	}
type TypeError struct {
	// Want is the variant the extractor expected.
	Want Kind
	// Got is the variant the value actually holds.
	Got Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("msgpack: cannot use %s as %s", e.Got, e.Want)
}
