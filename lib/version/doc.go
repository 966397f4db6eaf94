// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for supportctl.
//
// The package variables are injected with -ldflags -X at release time:
//
//	go build -ldflags "-X github.com/supportdesk/supportdesk/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Development builds leave them at their defaults. In that case [Read]
// falls back to the VCS stamp the Go toolchain embeds in the binary, so
// `supportctl version` still names a commit when built from a checkout.
package version
