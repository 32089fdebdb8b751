// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands implements the msgpack tool's subcommands for
// inspecting, producing, filtering, and converting MessagePack data
// from the command line.
//
// Subcommands:
//
//   - decode: convert MessagePack to JSON.
//   - encode: convert JSON (or YAML) to canonical MessagePack.
//   - diag: convert MessagePack to a diagnostic notation that keeps
//     type information JSON cannot express.
//   - validate: verify MessagePack uses the canonical encoding.
//   - transcode: convert between MessagePack and CBOR.
//
// All subcommands accept input from stdin or from a trailing file path
// argument. The --hex flag treats input as hex-encoded MessagePack for
// debugging wire dumps; --zstd and --lz4 decompress the input before
// decoding, so compressed captures can be piped in directly.
//
// When the first positional argument is not a subcommand name, it is
// treated as a jq filter expression. The tool decodes MessagePack to
// JSON internally and pipes the result through jq. With no arguments
// at all, msgpack acts as an alias for msgpack decode.
package commands
