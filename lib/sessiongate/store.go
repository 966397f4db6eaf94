// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sessiongate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/supportdesk/supportdesk/lib/schema"
	"github.com/supportdesk/supportdesk/lib/secret"
)

// Record is the persisted form of a session.
type Record struct {
	Token string       `json:"token,omitempty"`
	User  *schema.User `json:"user,omitempty"`

	// LegacyAuthenticated is the boolean flag written by early console
	// builds that authenticated against fixed credentials. It carries no
	// identity and never restores a session.
	LegacyAuthenticated bool `json:"isAuthenticated,omitempty"`
}

// Complete reports whether the record holds both a token and a user.
func (r Record) Complete() bool {
	return r.Token != "" && r.User != nil
}

// empty reports whether the record holds nothing at all.
func (r Record) empty() bool {
	return r.Token == "" && r.User == nil && !r.LegacyAuthenticated
}

// Store persists a session record. Load returns a zero Record and no
// error when nothing has been saved.
type Store interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// FileStore keeps the session in a JSON file readable only by its
// owner. Writes replace the file atomically, so a crash never leaves a
// token without its user or the reverse.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path. The file and its directory
// are created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the session file.
func (s *FileStore) Load() (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, nil
		}
		return Record{}, fmt.Errorf("reading session file %s: %w", s.path, err)
	}
	defer secret.Zero(data)

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("parsing session file %s: %w", s.path, err)
	}
	return record, nil
}

// Save writes record with mode 0600, creating the parent directory with
// mode 0700 if needed.
func (s *FileStore) Save(record Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')
	defer secret.Zero(data)

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".session-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", err)
	}
	temporaryPath := temporary.Name()
	cleanup := func() { os.Remove(temporaryPath) }

	if err := temporary.Chmod(0600); err != nil {
		temporary.Close()
		cleanup()
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		cleanup()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		cleanup()
		return fmt.Errorf("syncing session file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(temporaryPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replacing session file %s: %w", s.path, err)
	}
	return nil
}

// Clear deletes the session file. Clearing an absent file succeeds.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps the record in memory only. A Gate over a
// MemoryStore forgets its session when the process exits.
type MemoryStore struct {
	mu     sync.Mutex
	record Record
}

// Load returns the held record.
func (s *MemoryStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, nil
}

// Save replaces the held record.
func (s *MemoryStore) Save(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = record
	return nil
}

// Clear drops the held record.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = Record{}
	return nil
}
