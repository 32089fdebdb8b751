// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/msgpack"
	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

type encodeParams struct {
	Yaml      bool `flag:"yaml"   desc:"parse input as YAML instead of JSON"`
	HexOutput bool `flag:"hex,x"  desc:"write hex-encoded output instead of raw bytes"`
}

func encodeCommand() *cli.Command {
	var params encodeParams
	return &cli.Command{
		Name:    "encode",
		Summary: "Encode JSON to MessagePack",
		Description: `Reads a JSON document and writes the equivalent MessagePack bytes to
stdout. Input is read from stdin, or from a file given as the last
argument.

The input may use JSONC conveniences: comments and trailing commas are
stripped before parsing. With --yaml the input is parsed as YAML
instead; YAML timestamps encode as RFC 3339 strings and !!binary nodes
as MessagePack binary.

Numbers without a fractional part encode as integers, others as
floats. Object keys are sorted so the same document always produces
the same bytes.

Raw MessagePack is binary; redirect stdout to a file or use --hex to
get a hex dump instead.`,
		Usage: "msgpack encode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode a JSON document to a file",
				Command:     "echo '{\"compact\": true, \"schema\": 0}' | msgpack encode > message.bin",
			},
			{
				Description: "Encode to a hex dump for inspection",
				Command:     "echo '{\"compact\": true}' | msgpack encode --hex",
			},
			{
				Description: "Encode a YAML document",
				Command:     "msgpack encode --yaml config.yaml > config.bin",
			},
			{
				Description: "Round-trip through decode",
				Command:     "msgpack encode input.json | msgpack decode",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(args []string) error {
			data, remaining, err := readInput(args, inputParams{})
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected argument: %s", remaining[0])
			}
			return encodeMessagePack(data, os.Stdout, params.Yaml, params.HexOutput)
		},
	}
}

// encodeMessagePack parses a JSON (or YAML) document and writes the
// equivalent MessagePack encoding to w.
func encodeMessagePack(data []byte, w io.Writer, yamlMode, hexOutput bool) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty input: expected a JSON document")
	}

	var document any
	if yamlMode {
		if err := yaml.Unmarshal(data, &document); err != nil {
			return fmt.Errorf("parse YAML: %w", err)
		}
	} else {
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.UseNumber()
		if err := decoder.Decode(&document); err != nil {
			return fmt.Errorf("parse JSON: %w", err)
		}
	}

	value, err := valueFromDocument(document)
	if err != nil {
		return err
	}

	encoded := value.Encode()
	if hexOutput {
		_, err := fmt.Fprintln(w, hex.EncodeToString(encoded))
		return err
	}
	_, err = w.Write(encoded)
	return err
}

// valueFromDocument converts a decoded JSON or YAML document into a
// Value. json.Number distinguishes integers from floats by whether
// the literal parses as an int64; YAML gives native Go types,
// including time.Time for timestamps and []byte for !!binary nodes.
// Object keys are sorted so encoding is deterministic.
func valueFromDocument(document any) (msgpack.Value, error) {
	switch v := document.(type) {
	case nil:
		return msgpack.Nil(), nil
	case bool:
		return msgpack.Bool(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return msgpack.Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return msgpack.Value{}, fmt.Errorf("unrepresentable number: %s", v.String())
		}
		return msgpack.Float(f), nil
	case int:
		return msgpack.Int(int64(v)), nil
	case int64:
		return msgpack.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return msgpack.Value{}, fmt.Errorf("integer %d overflows int64", v)
		}
		return msgpack.Int(int64(v)), nil
	case float64:
		return msgpack.Float(v), nil
	case string:
		return msgpack.String(v), nil
	case []byte:
		return msgpack.Binary(v), nil
	case time.Time:
		return msgpack.String(v.Format(time.RFC3339Nano)), nil
	case []any:
		elements := make([]msgpack.Value, len(v))
		for i, element := range v {
			converted, err := valueFromDocument(element)
			if err != nil {
				return msgpack.Value{}, err
			}
			elements[i] = converted
		}
		return msgpack.Array(elements...), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		pairs := make([]msgpack.Pair, len(keys))
		for i, key := range keys {
			converted, err := valueFromDocument(v[key])
			if err != nil {
				return msgpack.Value{}, err
			}
			pairs[i] = msgpack.Pair{Key: msgpack.String(key), Value: converted}
		}
		return msgpack.Map(pairs...), nil
	case map[any]any:
		pairs := make([]msgpack.Pair, 0, len(v))
		for key, element := range v {
			convertedKey, err := valueFromDocument(key)
			if err != nil {
				return msgpack.Value{}, err
			}
			convertedValue, err := valueFromDocument(element)
			if err != nil {
				return msgpack.Value{}, err
			}
			pairs = append(pairs, msgpack.Pair{Key: convertedKey, Value: convertedValue})
		}
		slices.SortFunc(pairs, func(a, b msgpack.Pair) int {
			return strings.Compare(a.Key.String(), b.Key.String())
		})
		return msgpack.Map(pairs...), nil
	default:
		return msgpack.Value{}, fmt.Errorf("unsupported input type %T", document)
	}
}
