// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/msgpack"
	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

type diagParams struct {
	inputParams
}

func diagCommand() *cli.Command {
	var params diagParams
	return &cli.Command{
		Name:    "diag",
		Summary: "Show MessagePack in diagnostic notation",
		Description: `Reads MessagePack data and writes a human-readable diagnostic form to
stdout, one line per value. Unlike JSON output, the notation is
lossless: binary payloads appear as h'..' hex strings, extensions as
ext(type, h'..'), and non-string map keys keep their type.

The input may contain several MessagePack values back to back; each is
printed on its own line.`,
		Usage: "msgpack diag [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Inspect a file",
				Command:     "msgpack diag message.bin",
			},
			{
				Description: "Inspect hex input from stdin",
				Command:     "echo '82a7636f6d70616374c3a6736368656d6100' | msgpack diag --hex",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("diag", &params)
		},
		Run: func(args []string) error {
			data, remaining, err := readInput(args, params.inputParams)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected argument: %s", remaining[0])
			}
			return diagMessagePack(data, os.Stdout)
		},
	}
}

// diagMessagePack writes the diagnostic notation of each MessagePack
// value in data to w, one per line.
func diagMessagePack(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := msgpack.DiagnoseFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return fmt.Errorf("diagnose MessagePack at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}
	return nil
}
