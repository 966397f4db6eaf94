// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the console's CBOR configuration.
//
// The wire format to the backend is JSON. CBOR is used only for data
// the console writes for itself, such as the offline ticket snapshot.
// Types keep their `json` tags; fxamacker/cbor falls back to them when
// no `cbor` tag is present, so one set of tags governs both formats.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same value always produces the same bytes and a digest of the
// encoding identifies the content.
package codec
