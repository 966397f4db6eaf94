// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/supportdesk/supportdesk/lib/secret"
)

// ErrWrongKey is returned by Open when the ciphertext was sealed with a
// different key.
var ErrWrongKey = errors.New("sealed: data was encrypted with a different key")

// Key is an age X25519 identity used to seal and open cache payloads.
type Key struct {
	// PrivateKey is the AGE-SECRET-KEY-1... text. It must never be
	// logged.
	PrivateKey *secret.Buffer

	// PublicKey is the matching age1... recipient.
	PublicKey string
}

// GenerateKey creates a new identity.
func GenerateKey() (*Key, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("sealed: generating key: %w", err)
	}
	privateKey, err := secret.NewFromString(identity.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: protecting private key: %w", err)
	}
	return &Key{PrivateKey: privateKey, PublicKey: identity.Recipient().String()}, nil
}

// ParseKey builds a Key from private key text. The buffer is owned by
// the returned Key.
func ParseKey(privateKey *secret.Buffer) (*Key, error) {
	identity, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: invalid private key: %w", err)
	}
	return &Key{PrivateKey: privateKey, PublicKey: identity.Recipient().String()}, nil
}

// LoadKey reads the key file at path.
func LoadKey(path string) (*Key, error) {
	privateKey, err := secret.ReadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("sealed: reading key: %w", err)
	}
	key, err := ParseKey(privateKey)
	if err != nil {
		privateKey.Close()
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return key, nil
}

// LoadOrCreateKey reads the key file at path, generating and saving a
// new key when the file does not exist. created reports which happened.
func LoadOrCreateKey(path string) (key *Key, created bool, err error) {
	key, err = LoadKey(path)
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, false, err
	}
	if err := key.Save(path); err != nil {
		key.Close()
		return nil, false, err
	}
	return key, true, nil
}

// Save writes the private key to path with mode 0600, creating the
// directory with mode 0700. The file is replaced atomically.
func (k *Key) Save(path string) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("sealed: creating key directory: %w", err)
	}
	temporary, err := os.CreateTemp(directory, ".key-*")
	if err != nil {
		return fmt.Errorf("sealed: creating key file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0600); err != nil {
		temporary.Close()
		return fmt.Errorf("sealed: restricting key file: %w", err)
	}
	if _, err := temporary.Write(k.PrivateKey.Bytes()); err != nil {
		temporary.Close()
		return fmt.Errorf("sealed: writing key file: %w", err)
	}
	if _, err := temporary.WriteString("\n"); err != nil {
		temporary.Close()
		return fmt.Errorf("sealed: writing key file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("sealed: writing key file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("sealed: installing key file: %w", err)
	}
	return nil
}

// Close zeroes the private key.
func (k *Key) Close() error {
	if k.PrivateKey != nil {
		return k.PrivateKey.Close()
	}
	return nil
}

// Seal encrypts plaintext to the key's recipient.
func (k *Key) Seal(plaintext []byte) ([]byte, error) {
	recipient, err := age.ParseX25519Recipient(k.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("sealed: invalid public key: %w", err)
	}
	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("sealed: creating encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("sealed: encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("sealed: finishing encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts ciphertext produced by Seal with the same key.
func (k *Key) Open(ciphertext []byte) ([]byte, error) {
	identity, err := age.ParseX25519Identity(k.PrivateKey.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: invalid private key: %w", err)
	}
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongKey
		}
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("sealed: reading plaintext: %w", err)
	}
	return plaintext, nil
}
