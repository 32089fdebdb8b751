// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"nil", Nil()},
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"zero", Int(0)},
		{"positive fixint", Int(127)},
		{"uint8 range", Int(200)},
		{"uint16 range", Int(40000)},
		{"uint32 range", Int(3000000000)},
		{"uint64 range", Int(math.MaxInt64)},
		{"negative fixint", Int(-32)},
		{"int8 range", Int(-100)},
		{"int16 range", Int(-30000)},
		{"int32 range", Int(-2000000000)},
		{"int64 range", Int(math.MinInt64)},
		{"float32 width", Float(1.5)},
		{"float64 width", Float(1.32)},
		{"negative zero", Float(math.Copysign(0, -1))},
		{"infinity", Float(math.Inf(1))},
		{"nan", Float(math.NaN())},
		{"empty string", String("")},
		{"short string", String("Hello Rust")},
		{"long string", String(strings.Repeat("payload ", 64))},
		{"empty binary", Binary(nil)},
		{"binary", Binary([]byte{0x00, 0xff, 0x10})},
		{"empty array", Array()},
		{"array", Array(Int(1), String("two"), Nil())},
		{"empty map", Map()},
		{"map", Map(Pair{Key: String("k"), Value: Int(1)})},
		{"non-string map key", Map(Pair{Key: Int(7), Value: Bool(true)})},
		{"extension", Ext(2, []byte{0x32, 0x4a, 0x67, 0x11})},
		{"nested", Map(
			Pair{Key: String("compact"), Value: Bool(true)},
			Pair{Key: String("schema"), Value: Array(Int(1), Int(2), Float(1.32))},
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.value.Encode()
			decoded, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse(%x) error: %v", encoded, err)
			}
			if !decoded.Equal(tt.value) {
				t.Errorf("round trip changed the value: got %v, want %v", decoded, tt.value)
			}
		})
	}
}

func TestDecodeNonMinimalWidths(t *testing.T) {
	// The encoder always picks the smallest form, but the decoder must
	// accept any width a foreign encoder chose.
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"uint8 holding a fixint value", "cc2a", Int(42)},
		{"uint16 holding a fixint value", "cd002a", Int(42)},
		{"uint32 holding a fixint value", "ce0000002a", Int(42)},
		{"uint64 holding a fixint value", "cf000000000000002a", Int(42)},
		{"int8 holding a positive value", "d02a", Int(42)},
		{"int16 holding a negative fixint value", "d1ffff", Int(-1)},
		{"int64 holding a small negative value", "d3ffffffffffffffff", Int(-1)},
		{"float64 holding a float32 value", "cb3fe0000000000000", Float(0.5)},
		{"str8 holding a short string", "d9026869", String("hi")},
		{"str16 holding a short string", "da00026869", String("hi")},
		{"bin16 holding one byte", "c50001ff", Binary([]byte{0xff})},
		{"array16 holding one element", "dc0001c0", Array(Nil())},
		{"map16 holding one pair", "de0001a16101", Map(Pair{Key: String("a"), Value: Int(1)})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(mustHex(t, tt.input))
			if err != nil {
				t.Fatalf("Parse(%s) error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestReencodeCanonicalizes(t *testing.T) {
	// A value decoded from an oversized form re-encodes to the minimal
	// form, so re-encoding normalizes foreign wire bytes.
	decoded, err := Parse(mustHex(t, "cd002a"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := decoded.Encode(); !bytes.Equal(got, []byte{0x2a}) {
		t.Errorf("re-encoding = %x, want 2a", got)
	}

	wide, err := Parse(mustHex(t, "cb3fe0000000000000"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := wide.Encode(); !bytes.Equal(got, mustHex(t, "ca3f000000")) {
		t.Errorf("re-encoding = %x, want ca3f000000", got)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// Every strict prefix of a valid document must fail with
	// ErrUnexpectedEnd, never panic or mis-parse.
	document := Map(
		Pair{Key: String("compact"), Value: Bool(true)},
		Pair{Key: String("schema"), Value: Array(Int(1), Int(-129), Float(1.32), Binary([]byte{1, 2}), Ext(7, []byte{9}))},
	).Encode()
	for cut := 0; cut < len(document); cut++ {
		_, err := Parse(document[:cut])
		if !errors.Is(err, ErrUnexpectedEnd) {
			t.Errorf("Parse(document[:%d]) error = %v, want ErrUnexpectedEnd", cut, err)
		}
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte{0xc0, 0x01})
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("Parse() error = %v, want ErrTrailingData", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if decodeErr.Offset != 1 {
		t.Errorf("offset = %d, want 1", decodeErr.Offset)
	}
}

func TestParseFirst(t *testing.T) {
	var stream []byte
	stream = Int(1).AppendEncode(stream)
	stream = String("two").AppendEncode(stream)
	stream = Array(Bool(true), Nil()).AppendEncode(stream)

	want := []Value{Int(1), String("two"), Array(Bool(true), Nil())}
	rest := stream
	for i, wantValue := range want {
		value, next, err := ParseFirst(rest)
		if err != nil {
			t.Fatalf("ParseFirst() value %d error: %v", i, err)
		}
		if !value.Equal(wantValue) {
			t.Errorf("value %d = %v, want %v", i, value, wantValue)
		}
		rest = next
	}
	if len(rest) != 0 {
		t.Errorf("stream has %d leftover bytes after all values", len(rest))
	}

	// Trailing bytes that are not valid MessagePack are fine here: the
	// caller decides when to stop.
	value, next, err := ParseFirst([]byte{0x2a, 0xc1, 0xc1})
	if err != nil {
		t.Fatalf("ParseFirst() error: %v", err)
	}
	if !value.Equal(Int(42)) {
		t.Errorf("value = %v, want 42", value)
	}
	if !bytes.Equal(next, []byte{0xc1, 0xc1}) {
		t.Errorf("rest = %x, want c1c1", next)
	}
}

func TestDecodeReservedTag(t *testing.T) {
	_, err := Parse([]byte{0xc1})
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("Parse(c1) error = %v, want ErrUnknownTag", err)
	}

	// Nested occurrence reports the offset of the reserved byte, not
	// of the enclosing container.
	_, err = Parse([]byte{0x91, 0xc1})
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("Parse(91c1) error = %v, want ErrUnknownTag", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if decodeErr.Offset != 1 {
		t.Errorf("offset = %d, want 1", decodeErr.Offset)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{0xa2, 0xff, 0xfe})
	if !errors.Is(err, ErrInvalidString) {
		t.Fatalf("Parse() error = %v, want ErrInvalidString", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if decodeErr.Offset != 1 {
		t.Errorf("offset = %d, want 1", decodeErr.Offset)
	}

	// The same bytes are legal as binary data.
	value, err := Parse([]byte{0xc4, 0x02, 0xff, 0xfe})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got, err := value.AsBinary(); err != nil || !bytes.Equal(got, []byte{0xff, 0xfe}) {
		t.Errorf("AsBinary() = %x, %v", got, err)
	}
}

// nestedArrays builds n arrays wrapped around a single nil: 91 91 ... c0.
func nestedArrays(n int) []byte {
	return append(bytes.Repeat([]byte{0x91}, n), 0xc0)
}

func TestDecodeDepthLimit(t *testing.T) {
	if _, err := Parse(nestedArrays(DefaultMaxDepth)); err != nil {
		t.Fatalf("Parse() at the depth limit: %v", err)
	}

	_, err := Parse(nestedArrays(DefaultMaxDepth + 1))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("Parse() past the limit error = %v, want ErrDepthExceeded", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if decodeErr.Offset != DefaultMaxDepth {
		t.Errorf("offset = %d, want %d", decodeErr.Offset, DefaultMaxDepth)
	}
}

func TestDecodeDepthOptions(t *testing.T) {
	opts := DecodeOptions{MaxDepth: 2}
	if _, err := ParseWithOptions(nestedArrays(2), opts); err != nil {
		t.Fatalf("ParseWithOptions() at depth 2: %v", err)
	}
	if _, err := ParseWithOptions(nestedArrays(3), opts); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("ParseWithOptions() at depth 3 error = %v, want ErrDepthExceeded", err)
	}

	// The zero options value uses the default limit.
	if _, err := ParseWithOptions(nestedArrays(DefaultMaxDepth), DecodeOptions{}); err != nil {
		t.Errorf("ParseWithOptions() with zero options: %v", err)
	}

	// Maps count against the same limit as arrays.
	deepMap := append(bytes.Repeat([]byte{0x81, 0xc0}, 3), 0xc0)
	if _, err := ParseWithOptions(deepMap, opts); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("nested map error = %v, want ErrDepthExceeded", err)
	}
}

func TestDecodeUint64Range(t *testing.T) {
	value, err := Parse(mustHex(t, "cf7fffffffffffffff"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got, err := value.AsInt(); err != nil || got != math.MaxInt64 {
		t.Errorf("AsInt() = %d, %v, want MaxInt64", got, err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"max int64 plus one", "cf8000000000000000"},
		{"max uint64", "cfffffffffffffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mustHex(t, tt.input))
			if !errors.Is(err, ErrIntRange) {
				t.Fatalf("Parse(%s) error = %v, want ErrIntRange", tt.input, err)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error %v is not a *DecodeError", err)
			}
			if decodeErr.Offset != 0 {
				t.Errorf("offset = %d, want 0", decodeErr.Offset)
			}
		})
	}
}

func TestDecodeRejectsOversizedCounts(t *testing.T) {
	// Headers that promise more payload than the input holds must fail
	// up front instead of allocating for the claimed size.
	tests := []struct {
		name  string
		input string
	}{
		{"array16 claiming 65535 elements", "dcffff"},
		{"array32 claiming 4 billion elements", "ddffffffff"},
		{"map16 claiming 65535 pairs", "deffff"},
		{"map32 claiming 4 billion pairs", "dfffffffff"},
		{"str32 claiming 4 GiB", "dbffffffff"},
		{"bin32 claiming 4 GiB", "c6ffffffff"},
		{"ext32 claiming 4 GiB", "c9ffffffff07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mustHex(t, tt.input))
			if !errors.Is(err, ErrUnexpectedEnd) {
				t.Errorf("Parse(%s) error = %v, want ErrUnexpectedEnd", tt.input, err)
			}
		})
	}
}

func TestDecodeEmptyContainers(t *testing.T) {
	// Empty containers are real values, distinct from nil.
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{"empty array", "90", KindArray},
		{"empty map", "80", KindMap},
		{"empty string", "a0", KindString},
		{"empty binary", "c400", KindBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Parse(mustHex(t, tt.input))
			if err != nil {
				t.Fatalf("Parse(%s) error: %v", tt.input, err)
			}
			if value.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", value.Kind(), tt.want)
			}
			if value.IsNil() {
				t.Error("IsNil() = true for an empty container")
			}
		})
	}
}

func TestDecodeErrorOffsets(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       error
		wantOffset int
	}{
		{"empty input", "", ErrUnexpectedEnd, 0},
		{"reserved tag", "c1", ErrUnknownTag, 0},
		{"nested reserved tag", "91c1", ErrUnknownTag, 1},
		{"invalid utf-8 payload", "a2fffe", ErrInvalidString, 1},
		{"truncated uint16 field", "cd01", ErrUnexpectedEnd, 1},
		{"array promising more than the input holds", "92c0", ErrUnexpectedEnd, 0},
		{"truncated field inside an array", "91cd01", ErrUnexpectedEnd, 2},
		{"uint64 out of range", "cfffffffffffffffff", ErrIntRange, 0},
		{"oversized array count", "dcffff", ErrUnexpectedEnd, 0},
		{"trailing byte", "c001", ErrTrailingData, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mustHex(t, tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%s) error = %v, want %v", tt.input, err, tt.want)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error %v is not a *DecodeError", err)
			}
			if decodeErr.Offset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", decodeErr.Offset, tt.wantOffset)
			}
		})
	}
}

func TestDecodeCopiesPayloads(t *testing.T) {
	// Decoded values must not alias the input buffer: mutating the
	// input afterwards cannot change a parsed value.
	input := mustHex(t, "c403010203")
	value, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	input[2] = 0xee
	if got, _ := value.AsBinary(); !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("binary payload changed with the input buffer: %x", got)
	}

	extInput := mustHex(t, "d607aa")
	extValue, err := Parse(extInput)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	extInput[2] = 0xee
	if got, _ := extValue.AsExtension(); !bytes.Equal(got.Data, []byte{0xaa}) {
		t.Errorf("extension payload changed with the input buffer: %x", got.Data)
	}
}

func TestDecodeDuplicateMapKeys(t *testing.T) {
	value, err := Parse(mustHex(t, "82a16101a16102"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	pairs, err := value.AsMap()
	if err != nil {
		t.Fatalf("AsMap() error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	for i, wantValue := range []Value{Int(1), Int(2)} {
		if !pairs[i].Key.Equal(String("a")) {
			t.Errorf("pair %d key = %v, want \"a\"", i, pairs[i].Key)
		}
		if !pairs[i].Value.Equal(wantValue) {
			t.Errorf("pair %d value = %v, want %v", i, pairs[i].Value, wantValue)
		}
	}
}

func TestParseFixtureDocument(t *testing.T) {
	input := mustHex(t, "82a7636f6d70616374c3a6736368656d61930102cb3ff51eb851eb851f")
	value, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := Map(
		Pair{Key: String("compact"), Value: Bool(true)},
		Pair{Key: String("schema"), Value: Array(Int(1), Int(2), Float(1.32))},
	)
	if !value.Equal(want) {
		t.Fatalf("Parse() = %v, want %v", value, want)
	}

	pairs, err := value.AsMap()
	if err != nil {
		t.Fatalf("AsMap() error: %v", err)
	}
	if key, _ := pairs[0].Key.AsString(); key != "compact" {
		t.Errorf("first key = %q, want \"compact\"", key)
	}
	schema, err := pairs[1].Value.AsArray()
	if err != nil {
		t.Fatalf("AsArray() error: %v", err)
	}
	if got, _ := schema[2].AsFloat(); got != 1.32 {
		t.Errorf("schema[2] = %v, want 1.32", got)
	}
}
