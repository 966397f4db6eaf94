// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketstore keeps the last fetched ticket list on disk so
// the console can show it without a network round trip.
//
// One snapshot is kept per backend base URL in a SQLite table. A
// snapshot is the list encoded with lib/codec (deterministic CBOR),
// compressed with zstd or lz4, and identified by a keyed BLAKE3 digest
// of the uncompressed encoding. Saving a list whose digest matches the
// stored one only bumps its fetch time.
//
// The cache holds customer contact details. It is created with mode
// 0600 inside a 0700 directory and is deleted on logout. With a
// [sealed.Key] in [Config] each payload is also age-encrypted after
// compression; a snapshot sealed under another key reads as
// [ErrLocked] and is replaced by the next save.
package ticketstore
