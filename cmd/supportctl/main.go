// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Command supportctl is the customer support console.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/cmd/supportctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().Execute(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err and chooses the process status. An error that
// carries its own code was already reported by the command.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if cli.CategoryOf(err) == cli.CategoryValidation {
		return 2
	}
	return 1
}
