// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"errors"
	"math"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNil, "nil"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindBinary, "binary"},
		{KindArray, "array"},
		{KindMap, "map"},
		{KindExtension, "extension"},
		{Kind(42), "unknown(42)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(tt.kind), got, tt.want)
		}
	}
}

func TestConstructorKinds(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  Kind
	}{
		{"nil", Nil(), KindNil},
		{"bool", Bool(true), KindBool},
		{"int", Int(-7), KindInt},
		{"float", Float(1.5), KindFloat},
		{"string", String("text"), KindString},
		{"binary", Binary([]byte{0x01}), KindBinary},
		{"array", Array(Int(1), Int(2)), KindArray},
		{"map", Map(Pair{Key: String("k"), Value: Int(1)}), KindMap},
		{"extension", Ext(3, []byte{0xaa}), KindExtension},
		{"zero value is nil", Value{}, KindNil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicatesMatchKind(t *testing.T) {
	values := []Value{
		Nil(),
		Bool(false),
		Int(0),
		Float(0),
		String(""),
		Binary(nil),
		Array(),
		Map(),
		Ext(0, nil),
	}
	for _, value := range values {
		t.Run(value.Kind().String(), func(t *testing.T) {
			predicates := map[Kind]bool{
				KindNil:       value.IsNil(),
				KindBool:      value.IsBool(),
				KindInt:       value.IsInt(),
				KindFloat:     value.IsFloat(),
				KindString:    value.IsString(),
				KindBinary:    value.IsBinary(),
				KindArray:     value.IsArray(),
				KindMap:       value.IsMap(),
				KindExtension: value.IsExtension(),
			}
			for kind, got := range predicates {
				want := kind == value.Kind()
				if got != want {
					t.Errorf("Is%v = %v, want %v", kind, got, want)
				}
			}
		})
	}
}

func TestExtractors(t *testing.T) {
	if got, err := Bool(true).AsBool(); err != nil || got != true {
		t.Errorf("AsBool() = %v, %v, want true, nil", got, err)
	}
	if got, err := Int(-42).AsInt(); err != nil || got != -42 {
		t.Errorf("AsInt() = %v, %v, want -42, nil", got, err)
	}
	if got, err := Float(1.32).AsFloat(); err != nil || got != 1.32 {
		t.Errorf("AsFloat() = %v, %v, want 1.32, nil", got, err)
	}
	if got, err := String("Hello Rust").AsString(); err != nil || got != "Hello Rust" {
		t.Errorf("AsString() = %q, %v, want \"Hello Rust\", nil", got, err)
	}

	payload := []byte{0xde, 0xad}
	got, err := Binary(payload).AsBinary()
	if err != nil {
		t.Fatalf("AsBinary() error: %v", err)
	}
	if len(got) != 2 || got[0] != 0xde || got[1] != 0xad {
		t.Errorf("AsBinary() = %x, want dead", got)
	}

	elements, err := Array(Int(1), Int(2)).AsArray()
	if err != nil {
		t.Fatalf("AsArray() error: %v", err)
	}
	if len(elements) != 2 || !elements[0].Equal(Int(1)) || !elements[1].Equal(Int(2)) {
		t.Errorf("AsArray() = %v, want [1, 2]", elements)
	}

	pairs, err := Map(Pair{Key: String("k"), Value: Int(7)}).AsMap()
	if err != nil {
		t.Fatalf("AsMap() error: %v", err)
	}
	if len(pairs) != 1 || !pairs[0].Key.Equal(String("k")) || !pairs[0].Value.Equal(Int(7)) {
		t.Errorf("AsMap() = %v, want one pair k: 7", pairs)
	}

	extension, err := Ext(2, []byte{0x32, 0x4a, 0x67, 0x11}).AsExtension()
	if err != nil {
		t.Fatalf("AsExtension() error: %v", err)
	}
	if extension.Type != 2 || len(extension.Data) != 4 {
		t.Errorf("AsExtension() = %+v, want type 2 with 4 bytes", extension)
	}
}

func TestExtractorMismatch(t *testing.T) {
	_, err := String("text").AsInt()
	if err == nil {
		t.Fatal("AsInt() on a string = nil error, want *TypeError")
	}

	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("error %T does not unwrap to *TypeError", err)
	}
	if typeErr.Want != KindInt || typeErr.Got != KindString {
		t.Errorf("TypeError = {Want: %v, Got: %v}, want {Want: int, Got: string}", typeErr.Want, typeErr.Got)
	}
	if got, want := err.Error(), "msgpack: cannot use string as int"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	// Every extractor rejects a mismatched variant.
	value := Int(1)
	mismatches := []struct {
		name string
		err  error
	}{
		{"AsBool", func() error { _, err := value.AsBool(); return err }()},
		{"AsFloat", func() error { _, err := value.AsFloat(); return err }()},
		{"AsString", func() error { _, err := value.AsString(); return err }()},
		{"AsBinary", func() error { _, err := value.AsBinary(); return err }()},
		{"AsArray", func() error { _, err := value.AsArray(); return err }()},
		{"AsMap", func() error { _, err := value.AsMap(); return err }()},
		{"AsExtension", func() error { _, err := value.AsExtension(); return err }()},
	}
	for _, tt := range mismatches {
		if tt.err == nil {
			t.Errorf("%s on an int = nil error, want *TypeError", tt.name)
			continue
		}
		var typeErr *TypeError
		if !errors.As(tt.err, &typeErr) {
			t.Errorf("%s error %T does not unwrap to *TypeError", tt.name, tt.err)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil equals nil", Nil(), Nil(), true},
		{"zero value equals nil", Value{}, Nil(), true},
		{"equal ints", Int(42), Int(42), true},
		{"unequal ints", Int(42), Int(43), false},
		{"int is not float", Int(1), Float(1), false},
		{"equal floats", Float(1.32), Float(1.32), true},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), true},
		{"positive and negative zero differ", Float(0), Float(math.Copysign(0, -1)), false},
		{"equal strings", String("compact"), String("compact"), true},
		{"string is not binary", String("ab"), Binary([]byte("ab")), false},
		{"equal binaries", Binary([]byte{1, 2}), Binary([]byte{1, 2}), true},
		{"empty binary equals nil-slice binary", Binary([]byte{}), Binary(nil), true},
		{
			"equal arrays",
			Array(Int(1), String("two")),
			Array(Int(1), String("two")),
			true,
		},
		{
			"arrays differ in length",
			Array(Int(1)),
			Array(Int(1), Int(2)),
			false,
		},
		{
			"equal maps",
			Map(Pair{Key: String("a"), Value: Int(1)}, Pair{Key: String("b"), Value: Int(2)}),
			Map(Pair{Key: String("a"), Value: Int(1)}, Pair{Key: String("b"), Value: Int(2)}),
			true,
		},
		{
			"map order matters",
			Map(Pair{Key: String("a"), Value: Int(1)}, Pair{Key: String("b"), Value: Int(2)}),
			Map(Pair{Key: String("b"), Value: Int(2)}, Pair{Key: String("a"), Value: Int(1)}),
			false,
		},
		{
			"equal extensions",
			Ext(2, []byte{0x32, 0x4a}),
			Ext(2, []byte{0x32, 0x4a}),
			true,
		},
		{
			"extension type differs",
			Ext(2, []byte{0x32}),
			Ext(3, []byte{0x32}),
			false,
		},
		{
			"nested structures",
			Map(Pair{Key: String("schema"), Value: Array(Int(1), Int(2), Float(1.32))}),
			Map(Pair{Key: String("schema"), Value: Array(Int(1), Int(2), Float(1.32))}),
			true,
		},
		{
			"nested difference",
			Map(Pair{Key: String("schema"), Value: Array(Int(1), Int(2))}),
			Map(Pair{Key: String("schema"), Value: Array(Int(1), Int(3))}),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			// Equality is symmetric.
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reversed Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualAgreesWithEncoding(t *testing.T) {
	// Equal is defined to match encoding equality exactly. Check both
	// directions on values that stress the edge cases: bit-pattern
	// float comparison and map ordering.
	values := []Value{
		Nil(),
		Bool(true),
		Int(0),
		Float(0),
		Float(math.Copysign(0, -1)),
		Float(math.NaN()),
		String(""),
		Binary(nil),
		Array(Int(1)),
		Map(Pair{Key: String("a"), Value: Int(1)}, Pair{Key: String("b"), Value: Int(2)}),
		Map(Pair{Key: String("b"), Value: Int(2)}, Pair{Key: String("a"), Value: Int(1)}),
		Ext(2, []byte{0x32, 0x4a, 0x67, 0x11}),
	}
	for i, a := range values {
		for j, b := range values {
			equal := a.Equal(b)
			sameBytes := string(a.Encode()) == string(b.Encode())
			if equal != sameBytes {
				t.Errorf("values %d and %d: Equal() = %v but encoding equality = %v", i, j, equal, sameBytes)
			}
		}
	}
}

func TestHash(t *testing.T) {
	a := Map(Pair{Key: String("compact"), Value: Bool(true)})
	b := Map(Pair{Key: String("compact"), Value: Bool(true)})
	c := Map(Pair{Key: String("compact"), Value: Bool(false)})

	if a.Hash() != b.Hash() {
		t.Error("equal values produced different hashes")
	}
	if a.Hash() == c.Hash() {
		t.Error("distinct values produced the same hash")
	}
	if zero := ([32]byte{}); a.Hash() == zero {
		t.Error("hash is all zeroes")
	}
}
