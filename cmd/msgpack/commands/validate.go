// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/msgpack"
	"github.com/bureau-foundation/msgpack/cmd/msgpack/cli"
)

type validateParams struct {
	inputParams
	Slurp bool `flag:"slurp,s" desc:"validate a stream of concatenated values"`
}

func validateCommand() *cli.Command {
	var params validateParams
	return &cli.Command{
		Name:    "validate",
		Summary: "Check MessagePack for well-formedness and canonical encoding",
		Description: `Reads MessagePack data and checks that it is well-formed and uses the
canonical encoding: every integer, string, binary, array, map, and
extension header in its smallest width.

Prints "valid" and exits 0 when the input is canonical. Prints a
description of the problem and exits 1 when the input is malformed or
when a value is well-formed but not canonically encoded.

With --slurp, the input may contain several MessagePack values back to
back; all of them must be canonical.`,
		Usage: "msgpack validate [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate a file",
				Command:     "msgpack validate message.bin",
			},
			{
				Description: "Validate hex input from stdin",
				Command:     "echo 'cd002a' | msgpack validate --hex",
			},
			{
				Description: "Validate a stream of values",
				Command:     "msgpack validate --slurp stream.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(args []string) error {
			data, remaining, err := readInput(args, params.inputParams)
			if err != nil {
				return err
			}
			if len(remaining) > 0 {
				return fmt.Errorf("unexpected argument: %s", remaining[0])
			}
			if params.Slurp {
				return validateSequence(data, os.Stdout)
			}
			return validateSingle(data, os.Stdout)
		},
	}
}

// validateSingle checks that data is exactly one well-formed,
// canonically encoded MessagePack value. Problems are reported on w
// and signaled with exit code 1 rather than treated as tool errors.
func validateSingle(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	value, err := msgpack.Parse(data)
	if err != nil {
		fmt.Fprintf(w, "invalid: %v\n", err)
		return &cli.ExitError{Code: 1}
	}
	return reportMismatch(data, value.Encode(), w)
}

// validateSequence checks that data is a stream of well-formed,
// canonically encoded MessagePack values.
func validateSequence(data []byte, w io.Writer) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	var reencoded []byte
	remaining := data
	for item := 0; len(remaining) > 0; item++ {
		value, rest, err := msgpack.ParseFirst(remaining)
		if err != nil {
			fmt.Fprintf(w, "invalid: item %d: %v\n", item, err)
			return &cli.ExitError{Code: 1}
		}
		reencoded = value.AppendEncode(reencoded)
		remaining = rest
	}
	return reportMismatch(data, reencoded, w)
}

// reportMismatch compares the original bytes against their canonical
// re-encoding and reports the first difference, if any.
func reportMismatch(original, canonical []byte, w io.Writer) error {
	if bytes.Equal(original, canonical) {
		fmt.Fprintln(w, "valid")
		return nil
	}

	limit := min(len(original), len(canonical))
	offset := limit
	for i := 0; i < limit; i++ {
		if original[i] != canonical[i] {
			offset = i
			break
		}
	}
	fmt.Fprintf(w, "not canonical: first difference at byte %d (original %d bytes, canonical %d bytes)\n",
		offset, len(original), len(canonical))
	return &cli.ExitError{Code: 1}
}
