// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds one secret in locked, non-dumpable memory. Methods are
// safe for concurrent use; reading after Close panics.
type Buffer struct {
	mu     sync.Mutex
	region []byte
}

// New returns a zero-filled Buffer of size bytes.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: size %d is not positive", size)
	}
	region, err := lockedRegion(size)
	if err != nil {
		return nil, err
	}
	return &Buffer{region: region}, nil
}

func lockedRegion(size int) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mapping %d bytes: %w", size, err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: locking region: %w", err)
	}
	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: excluding region from core dumps: %w", err)
	}
	return region, nil
}

// NewFromBytes moves source into a new Buffer. source is zeroed even
// when allocation fails.
func NewFromBytes(source []byte) (*Buffer, error) {
	defer Zero(source)
	if len(source) == 0 {
		return nil, errors.New("secret: empty value")
	}
	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.region, source)
	return buffer, nil
}

// NewFromString copies value into a Buffer. The string stays on the
// heap, so this suits values that arrived as strings anyway, like a
// token decoded from JSON.
func NewFromString(value string) (*Buffer, error) {
	return NewFromBytes([]byte(value))
}

func (b *Buffer) open() []byte {
	if b.region == nil {
		panic("secret: use of closed Buffer")
	}
	return b.region
}

// Bytes returns the locked region itself. Do not retain it past Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open()
}

// String returns a heap copy of the secret.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.open())
}

// Len is the secret's size in bytes, or zero after Close.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.region)
}

// Equal reports whether both buffers hold the same bytes, in constant
// time. Two nil buffers are equal.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return subtle.ConstantTimeCompare(b.Bytes(), other.Bytes()) == 1
}

// Close wipes and releases the region. Calling it again is a no-op.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	region := b.region
	if region == nil {
		return nil
	}
	b.region = nil
	Zero(region)
	return errors.Join(unix.Munlock(region), unix.Munmap(region))
}

// Zero overwrites data with zeros.
func Zero(data []byte) { clear(data) }
