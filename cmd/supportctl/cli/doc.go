// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is supportctl's command framework and console wiring.
//
// A [Command] is a node in the command tree. Leaf commands declare a
// parameter struct whose tagged fields become pflag flags (see
// [BindFlags]) and a Run function that receives a context, the
// positional arguments and a scoped logger. Errors returned from Run
// are classified into [ToolError] categories by [Classify] so scripts
// can tell a rejected input from an unreachable backend.
//
// [ConsoleFlags] is embedded by every command that talks to the
// backend. Its Open method loads the configuration, builds the API
// client and restores the persisted session into a
// [sessiongate.Gate], returning a [Console] that commands use to open
// authenticated sessions and the offline ticket cache.
package cli
