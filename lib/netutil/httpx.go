// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil caps response body reads and recognizes transport
// failures that mean the backend is unreachable.
package netutil

import (
	"errors"
	"fmt"
	"io"
)

// MaxResponseSize caps JSON response bodies at 32 MiB.
const MaxResponseSize int64 = 32 << 20

// ErrResponseTooLarge reports a body longer than the caller's limit.
var ErrResponseTooLarge = errors.New("netutil: response body exceeds limit")

// ReadLimited reads body to EOF, failing with ErrResponseTooLarge
// rather than truncating when it holds more than limit bytes.
func ReadLimited(body io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrResponseTooLarge, limit)
	}
	return data, nil
}
