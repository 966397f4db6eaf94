// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package ticketstore

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/supportdesk/supportdesk/lib/codec"
	"github.com/supportdesk/supportdesk/lib/schema"
)

// Digest identifies a snapshot's content: the keyed BLAKE3 hash of its
// uncompressed CBOR encoding.
type Digest [32]byte

// snapshotKey separates snapshot digests from any other BLAKE3 use.
var snapshotKey = [32]byte{
	's', 'u', 'p', 'p', 'o', 'r', 't', 'd', 'e', 's', 'k', '.',
	't', 'i', 'c', 'k', 'e', 't', 's', 'n', 'a', 'p', 's', 'h', 'o', 't',
}

func digestOf(data []byte) Digest {
	hasher, err := blake3.NewKeyed(snapshotKey[:])
	if err != nil {
		panic("ticketstore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// DigestOf returns the digest a snapshot of tickets would carry. A nil
// list digests like an empty one.
func DigestOf(tickets []schema.Ticket) (Digest, error) {
	if tickets == nil {
		tickets = []schema.Ticket{}
	}
	encoded, err := codec.Marshal(tickets)
	if err != nil {
		return Digest{}, fmt.Errorf("ticketstore: encoding tickets: %w", err)
	}
	return digestOf(encoded), nil
}

// String returns the digest in hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex digits, for log lines and tables.
func (d Digest) Short() string {
	return d.String()[:12]
}
