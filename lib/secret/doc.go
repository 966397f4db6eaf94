// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords and bearer tokens outside the Go heap.
//
// A [Buffer] is backed by an anonymous mmap region that is locked
// against swap (mlock) and excluded from core dumps (MADV_DONTDUMP).
// Closing a Buffer zeroes the region before unmapping it. Values only
// leave the buffer as heap strings at the boundary where an API
// demands one (a JSON request body, an Authorization header, the
// session file), and those copies are short-lived.
package secret
