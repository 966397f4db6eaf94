// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads supportctl's YAML configuration.
//
// The file is located by an explicit path (the --config flag), then
// the SUPPORTDESK_CONFIG environment variable. With neither, [Load]
// returns [Default] and no file is read.
//
// A file may carry development, staging and production sections that
// override base values when [Config].Environment matches. When no base
// URL is configured anywhere, development and staging talk to a local
// backend and production to the deployed one.
//
// After the file, two environment variables override single values:
// SUPPORTDESK_API_URL replaces api.base_url and
// SUPPORTDESK_SESSION_FILE replaces paths.session_file. Path fields
// expand ${HOME}, ${XDG_CONFIG_HOME}, ${XDG_CACHE_HOME} and
// ${VAR:-default}.
//
// This package depends on no other supportdesk packages.
package config
