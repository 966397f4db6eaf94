// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every variable Load consults so the host environment
// cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvSessionFile, "")
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "supportdesk.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != Development {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.API.BaseURL != LocalBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, LocalBaseURL)
	}
	if want := filepath.Join(home, ".config", "supportdesk", "session.json"); cfg.Paths.SessionFile != want {
		t.Errorf("SessionFile = %q, want %q", cfg.Paths.SessionFile, want)
	}
	if want := filepath.Join(home, ".cache", "supportdesk", "tickets.db"); cfg.Paths.CacheFile != want {
		t.Errorf("CacheFile = %q, want %q", cfg.Paths.CacheFile, want)
	}
	if want := filepath.Join(home, ".config", "supportdesk", "cache.key"); cfg.Paths.CacheKey != want {
		t.Errorf("CacheKey = %q, want %q", cfg.Paths.CacheKey, want)
	}
	if cfg.Cache.Encrypt {
		t.Error("cache encryption is on by default")
	}
	if cfg.RequestTimeout() != 0 {
		t.Errorf("RequestTimeout = %v, want none", cfg.RequestTimeout())
	}
	if cfg.WatchInterval() != DefaultWatchInterval {
		t.Errorf("WatchInterval = %v", cfg.WatchInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestXDGDirectories(t *testing.T) {
	isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Paths.SessionFile != "/xdg/config/supportdesk/session.json" {
		t.Errorf("SessionFile = %q", cfg.Paths.SessionFile)
	}
	if cfg.Paths.CacheFile != "/xdg/cache/supportdesk/tickets.db" {
		t.Errorf("CacheFile = %q", cfg.Paths.CacheFile)
	}
}

func TestLoadFromEnvironmentVariable(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
environment: staging
api:
  base_url: https://staging.example.com
  request_timeout: 20s
console:
  default_sort: status
  default_direction: asc
`)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != Staging || cfg.API.BaseURL != "https://staging.example.com" {
		t.Errorf("got %s %s", cfg.Environment, cfg.API.BaseURL)
	}
	if cfg.RequestTimeout() != 20*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
	if cfg.Console.DefaultSort != "status" || cfg.Console.DefaultDirection != "asc" {
		t.Errorf("Console = %+v", cfg.Console)
	}
}

func TestExplicitPathWinsOverEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfigPath, writeConfig(t, "environment: staging\n"))
	explicit := writeConfig(t, "environment: production\n")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Environment != Production {
		t.Errorf("Environment = %q, want production from the explicit file", cfg.Environment)
	}
}

func TestProductionDefaultsToDeployedBackend(t *testing.T) {
	isolate(t)
	cfg, err := LoadFile(writeConfig(t, "environment: production\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != ProductionBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, ProductionBaseURL)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
environment: production
api:
  base_url: http://localhost:9000
cache:
  compression: zstd
production:
  api:
    base_url: https://support.example.org
  cache:
    compression: lz4
    disabled: true
development:
  api:
    base_url: http://dev.invalid
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != "https://support.example.org" {
		t.Errorf("BaseURL = %q, want production override", cfg.API.BaseURL)
	}
	if cfg.Cache.Compression != "lz4" || !cfg.Cache.Disabled {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestEnvironmentVariablesOverrideFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIURL, "http://10.0.0.5:8000")
	t.Setenv(EnvSessionFile, "/run/user/1000/support-session.json")

	cfg, err := LoadFile(writeConfig(t, `
api:
  base_url: https://from-file.example.com
paths:
  session_file: /from/file.json
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Paths.SessionFile != "/run/user/1000/support-session.json" {
		t.Errorf("SessionFile = %q", cfg.Paths.SessionFile)
	}
}

func TestLoadFileErrors(t *testing.T) {
	isolate(t)
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile of a missing file succeeded")
	}
	if _, err := LoadFile(writeConfig(t, "api: [unterminated\n")); err == nil {
		t.Error("LoadFile of malformed YAML succeeded")
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("SUPPORTDESK_TEST_DIR", "/srv/support")
	t.Setenv("SUPPORTDESK_TEST_EMPTY", "")

	tests := []struct {
		input string
		want  string
	}{
		{"${SUPPORTDESK_TEST_DIR}/session.json", "/srv/support/session.json"},
		{"${SUPPORTDESK_TEST_EMPTY:-/fallback}/x", "/fallback/x"},
		{"${SUPPORTDESK_TEST_EMPTY:-${SUPPORTDESK_TEST_DIR}/nested}", "/srv/support/nested"},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"environment", func(c *Config) { c.Environment = "qa" }, "invalid environment"},
		{"base url scheme", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, "api.base_url"},
		{"base url host", func(c *Config) { c.API.BaseURL = "http://" }, "api.base_url"},
		{"timeout", func(c *Config) { c.API.RequestTimeout = "soon" }, "api.request_timeout"},
		{"session file", func(c *Config) { c.Paths.SessionFile = "" }, "paths.session_file"},
		{"cache file", func(c *Config) { c.Paths.CacheFile = "" }, "paths.cache_file"},
		{"sort", func(c *Config) { c.Console.DefaultSort = "priority" }, "console.default_sort"},
		{"direction", func(c *Config) { c.Console.DefaultDirection = "up" }, "console.default_direction"},
		{"watch interval", func(c *Config) { c.Console.WatchInterval = "-5s" }, "console.watch_interval"},
		{"compression", func(c *Config) { c.Cache.Compression = "gzip" }, "cache.compression"},
		{"cache key", func(c *Config) { c.Cache.Encrypt = true; c.Paths.CacheKey = "" }, "paths.cache_key"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			test.modify(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, test.want)
			}
		})
	}

	t.Run("disabled cache needs no file", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		cfg.Paths.CacheFile = ""
		cfg.Cache.Disabled = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})
}
