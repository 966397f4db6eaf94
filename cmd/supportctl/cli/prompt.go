// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/supportdesk/supportdesk/lib/secret"
)

// Stdin is where prompts read from. Tests replace it.
var Stdin io.Reader = os.Stdin

// ReadPassword returns the password from path when set ("-" is stdin),
// otherwise prompts on the terminal without echo. When stdin is not a
// terminal the first line of stdin is used.
func ReadPassword(path, prompt string) (*secret.Buffer, error) {
	if path == "-" {
		path = ""
	} else if path != "" {
		password, err := secret.ReadFromPath(path)
		if err != nil {
			return nil, Validation("reading password: %v", err)
		}
		return password, nil
	}

	if StdinIsTerminal() {
		fmt.Fprint(Stderr, prompt)
		data, err := term.ReadPassword(int(Stdin.(*os.File).Fd()))
		fmt.Fprintln(Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		password, err := secret.NewFromBytes(data)
		if err != nil {
			return nil, Validation("password is required")
		}
		return password, nil
	}

	password, err := secret.ReadLine(Stdin)
	if err != nil {
		return nil, Validation("reading password: %v", err)
	}
	return password, nil
}

// StdinIsTerminal reports whether Stdin is an interactive terminal.
func StdinIsTerminal() bool {
	file, ok := Stdin.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
