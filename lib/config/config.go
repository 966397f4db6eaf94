// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath  = "SUPPORTDESK_CONFIG"
	EnvAPIURL      = "SUPPORTDESK_API_URL"
	EnvSessionFile = "SUPPORTDESK_SESSION_FILE"
)

// Backend URLs used when none is configured.
const (
	LocalBaseURL      = "http://localhost:8000"
	ProductionBaseURL = "https://customersupportplatform.onrender.com"
)

// DefaultWatchInterval is the refresh period of `ticket watch`.
const DefaultWatchInterval = 30 * time.Second

// Environment is the deployment the console talks to.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is supportctl's configuration.
type Config struct {
	Environment Environment   `yaml:"environment"`
	API         APIConfig     `yaml:"api"`
	Paths       PathsConfig   `yaml:"paths"`
	Console     ConsoleConfig `yaml:"console"`
	Cache       CacheConfig   `yaml:"cache"`

	// Per-environment overrides, applied after the base values.
	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides are the sections an environment block may replace. Empty
// fields leave the base value alone.
type Overrides struct {
	API     *APIConfig     `yaml:"api,omitempty"`
	Paths   *PathsConfig   `yaml:"paths,omitempty"`
	Console *ConsoleConfig `yaml:"console,omitempty"`
	Cache   *CacheConfig   `yaml:"cache,omitempty"`
}

// APIConfig locates the backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each request ("15s", "1m"). Empty means no
	// timeout beyond the transport's own.
	RequestTimeout string `yaml:"request_timeout"`
}

// PathsConfig locates local state.
type PathsConfig struct {
	// SessionFile holds the persisted token and user.
	SessionFile string `yaml:"session_file"`

	// CacheFile is the offline ticket snapshot database.
	CacheFile string `yaml:"cache_file"`

	// CacheKey holds the age identity used when cache.encrypt is set.
	// It is generated on first use.
	CacheKey string `yaml:"cache_key"`
}

// ConsoleConfig sets ticket list defaults.
type ConsoleConfig struct {
	// DefaultSort is "created_at", "status" or empty.
	DefaultSort string `yaml:"default_sort"`

	// DefaultDirection is "asc" or "desc".
	DefaultDirection string `yaml:"default_direction"`

	// WatchInterval is the `ticket watch` period.
	WatchInterval string `yaml:"watch_interval"`
}

// CacheConfig controls the offline snapshot.
type CacheConfig struct {
	// Compression is "zstd", "lz4" or "none".
	Compression string `yaml:"compression"`

	// Disabled turns off snapshot writes.
	Disabled bool `yaml:"disabled"`

	// Encrypt seals each snapshot with the key at paths.cache_key.
	Encrypt bool `yaml:"encrypt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			SessionFile: filepath.Join("${XDG_CONFIG_HOME:-${HOME}/.config}", "supportdesk", "session.json"),
			CacheFile:   filepath.Join("${XDG_CACHE_HOME:-${HOME}/.cache}", "supportdesk", "tickets.db"),
			CacheKey:    filepath.Join("${XDG_CONFIG_HOME:-${HOME}/.config}", "supportdesk", "cache.key"),
		},
		Console: ConsoleConfig{
			DefaultSort:      "created_at",
			DefaultDirection: "desc",
			WatchInterval:    DefaultWatchInterval.String(),
		},
		Cache: CacheConfig{
			Compression: "zstd",
		},
	}
}

// Load reads the file at path, or at $SUPPORTDESK_CONFIG when path is
// empty. With neither set it returns the defaults. Environment
// overrides and variable expansion are applied in every case.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	config := Default()
	if path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}
	config.finish()
	return config, nil
}

// LoadFile reads the file at path; a missing file is an error.
func LoadFile(path string) (*Config, error) {
	config := Default()
	if err := config.loadFile(path); err != nil {
		return nil, err
	}
	config.finish()
	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) finish() {
	c.applyEnvironmentOverrides()
	c.applyEnvironmentVariables()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL(c.Environment)
	}
	c.expandVariables()
}

func defaultBaseURL(environment Environment) string {
	if environment == Production {
		return ProductionBaseURL
	}
	return LocalBaseURL
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if api := overrides.API; api != nil {
		setIfNotEmpty(&c.API.BaseURL, api.BaseURL)
		setIfNotEmpty(&c.API.RequestTimeout, api.RequestTimeout)
	}
	if paths := overrides.Paths; paths != nil {
		setIfNotEmpty(&c.Paths.SessionFile, paths.SessionFile)
		setIfNotEmpty(&c.Paths.CacheFile, paths.CacheFile)
		setIfNotEmpty(&c.Paths.CacheKey, paths.CacheKey)
	}
	if console := overrides.Console; console != nil {
		setIfNotEmpty(&c.Console.DefaultSort, console.DefaultSort)
		setIfNotEmpty(&c.Console.DefaultDirection, console.DefaultDirection)
		setIfNotEmpty(&c.Console.WatchInterval, console.WatchInterval)
	}
	if cache := overrides.Cache; cache != nil {
		setIfNotEmpty(&c.Cache.Compression, cache.Compression)
		// Booleans cannot be told apart from unset, so an override
		// section always sets them.
		c.Cache.Disabled = cache.Disabled
		c.Cache.Encrypt = cache.Encrypt
	}
}

func (c *Config) applyEnvironmentVariables() {
	setIfNotEmpty(&c.API.BaseURL, os.Getenv(EnvAPIURL))
	setIfNotEmpty(&c.Paths.SessionFile, os.Getenv(EnvSessionFile))
}

func setIfNotEmpty(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (c *Config) expandVariables() {
	c.Paths.SessionFile = expandVars(c.Paths.SessionFile)
	c.Paths.CacheFile = expandVars(c.Paths.CacheFile)
	c.Paths.CacheKey = expandVars(c.Paths.CacheKey)
}

// varPattern matches ${VAR} and ${VAR:-default}. Defaults may nest one
// level of ${VAR}.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\$\{[^{}]*\})*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if parts[1] == "HOME" {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		return expandVars(parts[2])
	})
}

// RequestTimeout returns the parsed api.request_timeout, or zero.
func (c *Config) RequestTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.API.RequestTimeout)
	return timeout
}

// WatchInterval returns the parsed console.watch_interval, or
// DefaultWatchInterval when unset or invalid.
func (c *Config) WatchInterval() time.Duration {
	interval, err := time.ParseDuration(c.Console.WatchInterval)
	if err != nil || interval <= 0 {
		return DefaultWatchInterval
	}
	return interval
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]Environment{Development, Staging, Production}, c.Environment) {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}

	if parsed, err := url.Parse(c.API.BaseURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http or https URL, got %q", c.API.BaseURL))
	}
	if c.API.RequestTimeout != "" {
		if timeout, err := time.ParseDuration(c.API.RequestTimeout); err != nil || timeout < 0 {
			errs = append(errs, fmt.Errorf("api.request_timeout must be a non-negative duration, got %q", c.API.RequestTimeout))
		}
	}

	if c.Paths.SessionFile == "" {
		errs = append(errs, fmt.Errorf("paths.session_file is required"))
	}
	if c.Paths.CacheFile == "" && !c.Cache.Disabled {
		errs = append(errs, fmt.Errorf("paths.cache_file is required unless cache.disabled is set"))
	}
	if c.Paths.CacheKey == "" && c.Cache.Encrypt && !c.Cache.Disabled {
		errs = append(errs, fmt.Errorf("paths.cache_key is required when cache.encrypt is set"))
	}

	sorts := []string{"", "created_at", "status"}
	if !slices.Contains(sorts, c.Console.DefaultSort) {
		errs = append(errs, fmt.Errorf("console.default_sort must be one of %q", sorts))
	}
	directions := []string{"", "asc", "desc"}
	if !slices.Contains(directions, c.Console.DefaultDirection) {
		errs = append(errs, fmt.Errorf("console.default_direction must be one of %q", directions))
	}
	if c.Console.WatchInterval != "" {
		if interval, err := time.ParseDuration(c.Console.WatchInterval); err != nil || interval <= 0 {
			errs = append(errs, fmt.Errorf("console.watch_interval must be a positive duration, got %q", c.Console.WatchInterval))
		}
	}

	compressions := []string{"", "zstd", "lz4", "none"}
	if !slices.Contains(compressions, c.Cache.Compression) {
		errs = append(errs, fmt.Errorf("cache.compression must be one of %q", compressions))
	}

	return errors.Join(errs...)
}
