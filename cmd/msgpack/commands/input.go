// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// inputParams holds the input-handling flags shared by the commands
// that read MessagePack data. Commands embed it in their own params
// struct so the flags bind alongside their specific ones.
type inputParams struct {
	HexInput bool `flag:"hex,x" desc:"treat input as hex-encoded MessagePack"`
	Zstd     bool `flag:"zstd"  desc:"decompress input with zstd before decoding"`
	LZ4      bool `flag:"lz4"   desc:"decompress input with lz4 before decoding"`
}

// readInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or stdin.
//
// When HexInput is set, the raw bytes are treated as hex-encoded
// MessagePack: whitespace is stripped and the hex is decoded to
// binary. Hex decoding happens before decompression, so a hex dump of
// a compressed capture works with --hex --zstd.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller is responsible for validating that the returned
// args are acceptable (e.g., no unexpected positional arguments).
func readInput(args []string, opts inputParams) ([]byte, []string, error) {
	if opts.Zstd && opts.LZ4 {
		return nil, nil, fmt.Errorf("--zstd and --lz4 are mutually exclusive")
	}

	var data []byte
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if opts.HexInput {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	if opts.Zstd {
		decompressed, err := decompressZstd(data)
		if err != nil {
			return nil, nil, err
		}
		data = decompressed
	}
	if opts.LZ4 {
		decompressed, err := decompressLZ4(data)
		if err != nil {
			return nil, nil, err
		}
		data = decompressed
	}

	return data, remainingArgs, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "82 a7 63" or "82a763").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// zstdDecoder is reused across calls to avoid repeated initialization
// overhead. zstd.Decoder is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("msgpack tool: zstd decoder initialization failed: " + err.Error())
	}
}

// decompressZstd decompresses a zstd frame, as produced by the zstd
// command-line tool.
func decompressZstd(data []byte) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return result, nil
}

// decompressLZ4 decompresses an lz4 frame, as produced by the lz4
// command-line tool.
func decompressLZ4(data []byte) ([]byte, error) {
	result, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return result, nil
}
