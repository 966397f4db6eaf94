// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/cmd/supportctl/commands"
)

// TestCommandTree checks every node of the production tree: each has a
// summary, each leaf binds its flags without a duplicate name, and
// every group has subcommands.
func TestCommandTree(t *testing.T) {
	walkCommands(commands.Root(), nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands", name)
		}
		if command.Params != nil {
			func() {
				defer func() {
					if recovered := recover(); recovered != nil {
						t.Errorf("%s: binding flags panicked: %v", name, recovered)
					}
				}()
				cli.FlagsFromParams(command.Name, command.Params())
			}()
		}
	})
}

func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := append(append([]string(nil), path...), command.Name)
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput string
	}{
		{"success", nil, 0, ""},
		{"exit error is silent", &cli.ExitError{Code: 3}, 3, ""},
		{"validation", cli.Validation("bad flag"), 2, "error: bad flag\n"},
		{"other", errors.New("boom"), 1, "error: boom\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if code := exitCode(test.err, &stderr); code != test.wantCode {
				t.Errorf("exitCode = %d, want %d", code, test.wantCode)
			}
			if stderr.String() != test.wantOutput {
				t.Errorf("stderr = %q, want %q", stderr.String(), test.wantOutput)
			}
		})
	}
}
