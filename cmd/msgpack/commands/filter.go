// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/bureau-foundation/msgpack"
)

// filterMessagePack decodes MessagePack input to JSON and pipes it
// through jq with the given arguments. The input may contain several
// concatenated values; each becomes one JSON document in the stream
// fed to jq, which handles multi-document input natively (and
// combines it with -s/--slurp).
func filterMessagePack(data []byte, jqArgs []string) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected MessagePack data")
	}

	var buffer bytes.Buffer
	remaining := data
	for item := 0; len(remaining) > 0; item++ {
		value, rest, err := msgpack.ParseFirst(remaining)
		if err != nil {
			return fmt.Errorf("decode MessagePack stream item %d: %w", item, err)
		}
		encoded, err := json.Marshal(valueToJSON(value))
		if err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		buffer.Write(encoded)
		buffer.WriteByte('\n')
		remaining = rest
	}

	return runJQ(&buffer, jqArgs)
}

// runJQ pipes the JSON stream through jq, inheriting stdout and
// stderr so jq's output and error reporting reach the terminal
// directly. A non-zero jq exit code becomes this process's exit code.
func runJQ(input *bytes.Buffer, jqArgs []string) error {
	jqPath, err := exec.LookPath("jq")
	if err != nil {
		return fmt.Errorf(`jq not found in PATH; install jq or use "msgpack decode" for raw JSON output`)
	}

	cmd := exec.Command(jqPath, jqArgs...)
	cmd.Stdin = input
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("run jq: %w", err)
	}
	return nil
}
