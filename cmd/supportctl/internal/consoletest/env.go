// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package consoletest

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
	"github.com/supportdesk/supportdesk/lib/config"
	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/sessiongate"
)

// Env is an isolated console installation pointed at a Backend.
type Env struct {
	t       *testing.T
	Backend *Backend

	Dir         string
	ConfigPath  string
	SessionFile string
	CacheFile   string

	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// Setup starts a Backend and writes a configuration for it. The
// console's output streams are captured until the test ends. Tests using
// Setup must not run in parallel.
func Setup(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	env := &Env{
		t:           t,
		Backend:     NewBackend(t),
		Dir:         dir,
		ConfigPath:  filepath.Join(dir, "supportdesk.yaml"),
		SessionFile: filepath.Join(dir, "session.json"),
		CacheFile:   filepath.Join(dir, "tickets.db"),
		stdout:      &bytes.Buffer{},
		stderr:      &bytes.Buffer{},
	}

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvSessionFile, "")
	t.Setenv(config.EnvConfigPath, env.ConfigPath)
	t.Setenv(cli.EnvLogLevel, "debug")
	env.WriteConfig("")

	savedStdout, savedStderr, savedStdin := cli.Stdout, cli.Stderr, cli.Stdin
	cli.Stdout, cli.Stderr, cli.Stdin = env.stdout, env.stderr, strings.NewReader("")
	t.Cleanup(func() {
		cli.Stdout, cli.Stderr, cli.Stdin = savedStdout, savedStderr, savedStdin
	})
	return env
}

// WriteConfig rewrites the configuration file. extra is appended as
// additional top-level YAML.
func (e *Env) WriteConfig(extra string) {
	e.t.Helper()
	content := fmt.Sprintf(`environment: development
api:
  base_url: %s
paths:
  session_file: %s
  cache_file: %s
%s`, e.Backend.URL(), e.SessionFile, e.CacheFile, extra)
	if err := os.WriteFile(e.ConfigPath, []byte(content), 0o600); err != nil {
		e.t.Fatalf("writing config: %v", err)
	}
}

// LogIn adds an active account and saves its session, as a successful
// `auth login` would.
func (e *Env) LogIn(user schema.User) *Account {
	e.t.Helper()
	user.IsActive = true
	account := e.Backend.AddAccount(Account{Password: "secret-" + user.Username, User: user})
	record := sessiongate.Record{Token: account.Token, User: &account.User}
	if err := sessiongate.NewFileStore(e.SessionFile).Save(record); err != nil {
		e.t.Fatalf("saving session: %v", err)
	}
	return account
}

// Run executes command with args and returns its error. Output
// accumulated by earlier calls is discarded first.
func (e *Env) Run(command *cli.Command, args ...string) error {
	e.t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	return command.Execute(context.Background(), args)
}

// MustRun is Run that fails the test on error.
func (e *Env) MustRun(command *cli.Command, args ...string) string {
	e.t.Helper()
	if err := e.Run(command, args...); err != nil {
		e.t.Fatalf("%s %s: %v\nstderr:\n%s", command.Name, strings.Join(args, " "), err, e.stderr)
	}
	return e.stdout.String()
}

// Stdout returns what the last command printed.
func (e *Env) Stdout() string {
	return e.stdout.String()
}

// Stderr returns the last command's help output and log lines.
func (e *Env) Stderr() string {
	return e.stderr.String()
}

// SetStdin replaces what prompts read.
func (e *Env) SetStdin(input string) {
	cli.Stdin = strings.NewReader(input)
}
