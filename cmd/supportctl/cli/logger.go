// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// EnvLogLevel selects the command log level ("debug", "info", "warn",
// "error"). Unset means info.
const EnvLogLevel = "SUPPORTDESK_LOG_LEVEL"

// NewCommandLogger returns the logger handed to Run. It writes text to a
// terminal and JSON when stderr is redirected.
func NewCommandLogger() *slog.Logger {
	options := &slog.HandlerOptions{Level: logLevel(os.Getenv(EnvLogLevel))}
	var handler slog.Handler
	if file, ok := Stderr.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		handler = slog.NewTextHandler(Stderr, options)
	} else {
		handler = slog.NewJSONHandler(Stderr, options)
	}
	return slog.New(handler)
}

func logLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
