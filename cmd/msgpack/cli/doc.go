// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the msgpack tool.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/msgpack/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Flags are usually declared declaratively: [FlagsFromParams] reflects
// over a tagged params struct and registers a pflag entry per field, so
// a command's flag surface lives next to the fields that receive the
// parsed values.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Commands that print their own diagnostics and only need a non-zero
// exit status return [ExitError]; the main function recognizes it and
// exits with the requested code without printing a redundant error line.
package cli
