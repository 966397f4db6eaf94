// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
)

func TestIsUnreachable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"eof", io.EOF, true},
		{"unexpected eof", fmt.Errorf("reading: %w", io.ErrUnexpectedEOF), true},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, true},
		{"reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"other errno", syscall.EACCES, false},
		{"dns", &net.DNSError{Err: "no such host", Name: "support.invalid", IsNotFound: true}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsUnreachable(test.err); got != test.want {
				t.Errorf("IsUnreachable(%v) = %v, want %v", test.err, got, test.want)
			}
		})
	}
}

func TestIsUnreachableClosedServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := http.Get(url)
	if err == nil {
		t.Fatal("request to a closed server succeeded")
	}
	if !IsUnreachable(err) {
		t.Errorf("IsUnreachable(%v) = false", err)
	}
}
