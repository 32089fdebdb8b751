// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/msgpack"
	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

type transcodeParams struct {
	inputParams
	FromCBOR bool `flag:"from-cbor" desc:"convert CBOR input to MessagePack instead"`
}

func transcodeCommand() *cli.Command {
	var params transcodeParams
	return &cli.Command{
		Name:    "transcode",
		Summary: "Convert between MessagePack and CBOR",
		Description: `Reads MessagePack data and writes the equivalent deterministically
encoded CBOR to stdout. With --from-cbor the direction reverses: CBOR
in, canonical MessagePack out.

Both formats share the same data model for nil, booleans, integers,
floats, strings, binary, arrays, and maps, so those convert cleanly in
either direction. MessagePack extensions and CBOR tags have no
counterpart on the other side and are reported as errors, as are CBOR
integers outside the int64 range.`,
		Usage: "msgpack transcode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Convert a MessagePack file to CBOR",
				Command:     "msgpack transcode message.bin > message.cbor",
			},
			{
				Description: "Convert CBOR back to MessagePack",
				Command:     "msgpack transcode --from-cbor message.cbor > message.bin",
			},
			{
				Description: "Inspect the CBOR conversion of hex input",
				Command:     "echo '82a7636f6d70616374c3a6736368656d6100' | msgpack transcode --hex | xxd",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("transcode", &params)
		},
		Run: func(args []string) error {
			data, remaining, err := readInput(args, params.inputParams)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected argument: %s", remaining[0])
			}
			if params.FromCBOR {
				return transcodeFromCBOR(data, os.Stdout)
			}
			return transcodeToCBOR(data, os.Stdout)
		},
	}
}

// cborEncMode and cborDecMode are configured once at startup. The
// encoder uses the deterministic core profile so the same input
// always produces the same CBOR bytes.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("msgpack tool: CBOR encoder initialization failed: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("msgpack tool: CBOR decoder initialization failed: " + err.Error())
	}
}

// transcodeToCBOR converts one MessagePack value to deterministic
// CBOR.
func transcodeToCBOR(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	value, err := msgpack.Parse(data)
	if err != nil {
		return fmt.Errorf("decode MessagePack: %w", err)
	}
	document, err := cborFromValue(value)
	if err != nil {
		return err
	}
	encoded, err := cborEncMode.Marshal(document)
	if err != nil {
		return fmt.Errorf("encode CBOR: %w", err)
	}
	_, err = w.Write(encoded)
	return err
}

// cborFromValue converts a Value into a structure the CBOR encoder
// accepts. Maps become map[any]any so non-string keys survive; the
// deterministic encoding mode sorts them on output. The extraction
// errors are impossible after the Kind dispatch, so they are
// discarded.
func cborFromValue(value msgpack.Value) (any, error) {
	switch value.Kind() {
	case msgpack.KindNil:
		return nil, nil
	case msgpack.KindBool:
		b, _ := value.AsBool()
		return b, nil
	case msgpack.KindInt:
		i, _ := value.AsInt()
		return i, nil
	case msgpack.KindFloat:
		f, _ := value.AsFloat()
		return f, nil
	case msgpack.KindString:
		s, _ := value.AsString()
		return s, nil
	case msgpack.KindBinary:
		b, _ := value.AsBinary()
		return b, nil
	case msgpack.KindArray:
		elements, _ := value.AsArray()
		result := make([]any, len(elements))
		for i, element := range elements {
			converted, err := cborFromValue(element)
			if err != nil {
				return nil, err
			}
			result[i] = converted
		}
		return result, nil
	case msgpack.KindMap:
		pairs, _ := value.AsMap()
		result := make(map[any]any, len(pairs))
		for _, pair := range pairs {
			key, err := cborFromValue(pair.Key)
			if err != nil {
				return nil, err
			}
			switch key.(type) {
			case nil, bool, int64, float64, string:
			default:
				return nil, fmt.Errorf("map key %s cannot be a CBOR map key", pair.Key)
			}
			converted, err := cborFromValue(pair.Value)
			if err != nil {
				return nil, err
			}
			result[key] = converted
		}
		return result, nil
	case msgpack.KindExtension:
		ext, _ := value.AsExtension()
		return nil, fmt.Errorf("extension values (type %d) have no CBOR equivalent", ext.Type)
	default:
		return nil, fmt.Errorf("unsupported value kind %v", value.Kind())
	}
}

// transcodeFromCBOR converts one CBOR value to canonical MessagePack.
func transcodeFromCBOR(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected CBOR data")
	}

	var document any
	if err := cborDecMode.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("decode CBOR: %w", err)
	}
	value, err := valueFromCBOR(document)
	if err != nil {
		return err
	}
	_, err = w.Write(value.Encode())
	return err
}

// valueFromCBOR converts a decoded CBOR document into a Value. The
// CBOR decoder hands back uint64 for non-negative integers, int64 for
// negative ones, and big.Int for bignums; anything outside the int64
// range cannot be represented. Map entries are sorted by the
// diagnostic notation of their key so the output is deterministic.
func valueFromCBOR(document any) (msgpack.Value, error) {
	switch v := document.(type) {
	case nil:
		return msgpack.Nil(), nil
	case bool:
		return msgpack.Bool(v), nil
	case int64:
		return msgpack.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return msgpack.Value{}, fmt.Errorf("integer %d overflows int64", v)
		}
		return msgpack.Int(int64(v)), nil
	case float64:
		return msgpack.Float(v), nil
	case float32:
		return msgpack.Float(float64(v)), nil
	case string:
		return msgpack.String(v), nil
	case []byte:
		return msgpack.Binary(v), nil
	case time.Time:
		// The decoder turns tags 0 and 1 into time.Time; render as an
		// RFC 3339 string since MessagePack has no time type here.
		return msgpack.String(v.Format(time.RFC3339Nano)), nil
	case []any:
		elements := make([]msgpack.Value, len(v))
		for i, element := range v {
			converted, err := valueFromCBOR(element)
			if err != nil {
				return msgpack.Value{}, err
			}
			elements[i] = converted
		}
		return msgpack.Array(elements...), nil
	case map[any]any:
		pairs := make([]msgpack.Pair, 0, len(v))
		for key, element := range v {
			convertedKey, err := valueFromCBOR(key)
			if err != nil {
				return msgpack.Value{}, err
			}
			convertedValue, err := valueFromCBOR(element)
			if err != nil {
				return msgpack.Value{}, err
			}
			pairs = append(pairs, msgpack.Pair{Key: convertedKey, Value: convertedValue})
		}
		slices.SortFunc(pairs, func(a, b msgpack.Pair) int {
			return strings.Compare(a.Key.String(), b.Key.String())
		})
		return msgpack.Map(pairs...), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		pairs := make([]msgpack.Pair, len(keys))
		for i, key := range keys {
			converted, err := valueFromCBOR(v[key])
			if err != nil {
				return msgpack.Value{}, err
			}
			pairs[i] = msgpack.Pair{Key: msgpack.String(key), Value: converted}
		}
		return msgpack.Map(pairs...), nil
	case cbor.Tag:
		return msgpack.Value{}, fmt.Errorf("tagged CBOR value (tag %d) has no MessagePack equivalent", v.Number)
	case big.Int:
		return msgpack.Value{}, fmt.Errorf("integer %s overflows int64", v.String())
	case *big.Int:
		return msgpack.Value{}, fmt.Errorf("integer %s overflows int64", v.String())
	default:
		return msgpack.Value{}, fmt.Errorf("unsupported CBOR type %T", document)
	}
}
