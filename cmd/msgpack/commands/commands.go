// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

// rootParams holds the parameters for the top-level "msgpack" command.
// This command has both Subcommands (decode, encode, diag, validate,
// transcode) and a Run fallback. When the first positional argument
// matches a subcommand, the framework routes there. Otherwise, Run
// handles it: no args means default decode; anything else is treated
// as a jq filter expression.
type rootParams struct {
	inputParams
	Compact   bool `flag:"compact,c"    desc:"compact output (no indentation)"`
	RawOutput bool `flag:"raw-output,r" desc:"raw string output (passed to jq)"`
	Slurp     bool `flag:"slurp,s"      desc:"read a MessagePack stream as a JSON array"`
}

// Root returns the "msgpack" command tree.
func Root() *cli.Command {
	var params rootParams

	return &cli.Command{
		Name:    "msgpack",
		Summary: "Inspect, produce, and convert MessagePack data",
		Description: `Tools for working with MessagePack data from the command line.

With no arguments, decodes MessagePack on stdin to pretty-printed JSON
on stdout (equivalent to "msgpack decode").

When the first argument is not a subcommand name (decode, encode, diag,
validate, transcode), it is treated as a jq filter expression. The
MessagePack input is decoded to JSON internally and piped through jq.
Common jq flags (-c, -r, -s) are supported and passed through.

All subcommands accept an optional trailing file path argument. When
provided, input is read from the file instead of stdin. This matches jq
convention: "msgpack '.field' message.bin".

With --hex, input is treated as hex-encoded MessagePack rather than raw
binary. Whitespace in the hex input is ignored. With --zstd or --lz4,
the input is decompressed before decoding.`,
		Subcommands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			diagCommand(),
			validateCommand(),
			transcodeCommand(),
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("msgpack", &params)
		},
		Run: func(args []string) error {
			data, remainingArgs, err := readInput(args, params.inputParams)
			if err != nil {
				return err
			}

			if len(remainingArgs) == 0 {
				// No arguments: default to decode.
				return decodeMessagePack(data, os.Stdout, params.Compact, params.Slurp, 0)
			}

			// Remaining positional args are a jq filter expression.
			var jqArgs []string
			if params.Compact {
				jqArgs = append(jqArgs, "-c")
			}
			if params.RawOutput {
				jqArgs = append(jqArgs, "-r")
			}
			if params.Slurp {
				jqArgs = append(jqArgs, "-s")
			}
			jqArgs = append(jqArgs, remainingArgs...)

			return filterMessagePack(data, jqArgs)
		},
		Examples: []cli.Example{
			{
				Description: "Decode MessagePack to pretty JSON",
				Command:     "msgpack < message.bin",
			},
			{
				Description: "Decode a MessagePack file to JSON",
				Command:     "msgpack decode message.bin",
			},
			{
				Description: "Extract a field with jq",
				Command:     "msgpack '.schema' message.bin",
			},
			{
				Description: "Raw string output from a jq filter",
				Command:     "msgpack -r '.name' message.bin",
			},
			{
				Description: "Decode hex-encoded MessagePack",
				Command:     "echo '82a7...' | msgpack --hex",
			},
			{
				Description: "Decode a zstd-compressed capture",
				Command:     "msgpack --zstd capture.bin.zst",
			},
			{
				Description: "Encode JSON to MessagePack",
				Command:     "echo '{\"compact\":true}' | msgpack encode",
			},
			{
				Description: "Validate canonical encoding",
				Command:     "msgpack validate message.bin",
			},
			{
				Description: "Inspect structure with diagnostic notation",
				Command:     "msgpack diag message.bin",
			},
			{
				Description: "Round-trip: encode then decode",
				Command:     "echo '{\"count\":42}' | msgpack encode | msgpack decode",
			},
		},
	}
}
