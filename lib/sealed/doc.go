// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts the offline ticket cache at rest with age.
//
// A [Key] is an age X25519 identity kept in a file readable only by its
// owner. The private half lives in a [secret.Buffer] (mmap memory
// outside the Go heap, zeroed on Close). [Key.Seal] encrypts to the
// key's own recipient and [Key.Open] reverses it; ciphertext is raw age
// binary, suitable for a database blob.
//
// [LoadOrCreateKey] is the usual entry point: it reads the key file or
// generates a new identity and writes it atomically with mode 0600.
// Losing the key file only loses the cache, which is refetched on the
// next online listing.
package sealed
