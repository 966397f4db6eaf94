// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) succeeded, want error", size)
		}
	}
}

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("correct horse")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "correct horse" {
		t.Errorf("String() = %q, want %q", got, "correct horse")
	}
	if buffer.Len() != len("correct horse") {
		t.Errorf("Len() = %d, want %d", buffer.Len(), len("correct horse"))
	}
	for index, value := range source {
		if value != 0 {
			t.Fatalf("source[%d] = %d after copy, want 0", index, value)
		}
	}
}

func TestNewFromBytesEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("NewFromBytes(nil) succeeded, want error")
	}
}

func TestBufferEqual(t *testing.T) {
	first, err := NewFromString("token-abc")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	defer first.Close()
	second, err := NewFromString("token-abc")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	defer second.Close()
	third, err := NewFromString("token-xyz")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	defer third.Close()

	if !first.Equal(second) {
		t.Error("equal secrets compared unequal")
	}
	if first.Equal(third) {
		t.Error("different secrets compared equal")
	}
}

func TestCloseIsIdempotentAndPoisonsReads(t *testing.T) {
	buffer, err := NewFromString("secret")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("String() after Close did not panic")
		}
	}()
	_ = buffer.String()
}

func TestReadFromPath(t *testing.T) {
	directory := t.TempDir()

	path := filepath.Join(directory, "password")
	if err := os.WriteFile(path, []byte("  hunter22\n"), 0600); err != nil {
		t.Fatal(err)
	}
	buffer, err := ReadFromPath(path)
	if err != nil {
		t.Fatalf("ReadFromPath: %v", err)
	}
	defer buffer.Close()
	if got := buffer.String(); got != "hunter22" {
		t.Errorf("String() = %q, want %q", got, "hunter22")
	}

	blank := filepath.Join(directory, "blank")
	if err := os.WriteFile(blank, []byte(" \n\t"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFromPath(blank); err == nil {
		t.Error("ReadFromPath(blank) succeeded, want error")
	}

	if _, err := ReadFromPath(filepath.Join(directory, "missing")); err == nil {
		t.Error("ReadFromPath(missing) succeeded, want error")
	}
}

func TestReadLine(t *testing.T) {
	buffer, err := ReadLine(strings.NewReader("first\nsecond\n"))
	if err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
	defer buffer.Close()
	if got := buffer.String(); got != "first" {
		t.Errorf("String() = %q, want %q", got, "first")
	}

	if _, err := ReadLine(strings.NewReader("")); err == nil {
		t.Error("ReadLine(empty) succeeded, want error")
	}
}
