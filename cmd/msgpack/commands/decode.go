// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/msgpack"
	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

type decodeParams struct {
	inputParams
	Compact  bool `flag:"compact,c"  desc:"compact JSON output (no indentation)"`
	Slurp    bool `flag:"slurp,s"    desc:"decode a stream of concatenated values into a JSON array"`
	MaxDepth int  `flag:"max-depth"  desc:"nesting depth limit (0 uses the default)"`
}

func decodeCommand() *cli.Command {
	var params decodeParams
	return &cli.Command{
		Name:    "decode",
		Summary: "Decode MessagePack to JSON",
		Description: `Reads MessagePack data and writes the equivalent JSON to stdout.

Input is read from stdin, or from a file given as the last argument.
Use --hex when the input is a hex dump rather than raw bytes, and
--zstd or --lz4 when it is compressed.

Binary payloads are emitted as base64 strings. Map keys that are not
strings, extension values, and non-finite floats have no JSON
equivalent and are rendered using diagnostic notation.

With --slurp, the input may contain several MessagePack values back to
back; they decode into a single JSON array.`,
		Usage: "msgpack decode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a file to pretty-printed JSON",
				Command:     "msgpack decode message.bin",
			},
			{
				Description: "Decode hex input from stdin",
				Command:     "echo '82a7636f6d70616374c3a6736368656d6100' | msgpack decode --hex",
			},
			{
				Description: "Decode a zstd-compressed capture",
				Command:     "msgpack decode --zstd capture.bin.zst",
			},
			{
				Description: "Decode a stream of values into a JSON array",
				Command:     "msgpack decode --slurp stream.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(args []string) error {
			data, remaining, err := readInput(args, params.inputParams)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected argument: %s", remaining[0])
			}
			return decodeMessagePack(data, os.Stdout, params.Compact, params.Slurp, params.MaxDepth)
		},
	}
}

// decodeMessagePack decodes MessagePack bytes and writes JSON to w.
// With slurp set, the input is treated as a stream of concatenated
// values decoded into a single JSON array.
func decodeMessagePack(data []byte, w io.Writer, compact, slurp bool, maxDepth int) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	options := msgpack.DecodeOptions{MaxDepth: maxDepth}

	if slurp {
		values, err := decodeSlurp(data, options)
		if err != nil {
			return err
		}
		return writeJSON(w, values, compact)
	}

	value, err := msgpack.ParseWithOptions(data, options)
	if err != nil {
		return fmt.Errorf("decode MessagePack: %w", err)
	}
	return writeJSON(w, valueToJSON(value), compact)
}

// decodeSlurp decodes a stream of concatenated MessagePack values into
// a slice of JSON-encodable documents.
func decodeSlurp(data []byte, options msgpack.DecodeOptions) ([]any, error) {
	var values []any
	remaining := data
	for len(remaining) > 0 {
		value, rest, err := msgpack.ParseFirstWithOptions(remaining, options)
		if err != nil {
			return nil, fmt.Errorf("decode MessagePack stream item %d: %w", len(values), err)
		}
		values = append(values, valueToJSON(value))
		remaining = rest
	}
	return values, nil
}

// valueToJSON converts a decoded Value into a structure that
// encoding/json can marshal. Binary payloads become base64 strings
// (encoding/json's []byte behavior). Constructs with no JSON
// equivalent fall back to diagnostic notation: non-string map keys,
// extension values, and non-finite floats.
//
// The extraction errors are impossible after the Kind dispatch, so
// they are discarded.
func valueToJSON(value msgpack.Value) any {
	switch value.Kind() {
	case msgpack.KindNil:
		return nil
	case msgpack.KindBool:
		b, _ := value.AsBool()
		return b
	case msgpack.KindInt:
		i, _ := value.AsInt()
		return i
	case msgpack.KindFloat:
		f, _ := value.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.String()
		}
		return f
	case msgpack.KindString:
		s, _ := value.AsString()
		return s
	case msgpack.KindBinary:
		b, _ := value.AsBinary()
		return b
	case msgpack.KindArray:
		elements, _ := value.AsArray()
		result := make([]any, len(elements))
		for i, element := range elements {
			result[i] = valueToJSON(element)
		}
		return result
	case msgpack.KindMap:
		pairs, _ := value.AsMap()
		result := make(map[string]any, len(pairs))
		for _, pair := range pairs {
			key := pair.Key.String()
			if s, err := pair.Key.AsString(); err == nil {
				key = s
			}
			result[key] = valueToJSON(pair.Value)
		}
		return result
	case msgpack.KindExtension:
		return value.String()
	default:
		return nil
	}
}

// writeJSON marshals a document to w, pretty-printed unless compact
// is set.
func writeJSON(w io.Writer, document any, compact bool) error {
	var output []byte
	var err error
	if compact {
		output, err = json.Marshal(document)
	} else {
		output, err = json.MarshalIndent(document, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	output = append(output, '\n')
	_, err = w.Write(output)
	return err
}
