// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealerInfo = "ubuntu-pools session v1"

var (
	// ErrEmptyKey is returned by [NewSessionSealer] for an empty secret.
	ErrEmptyKey = errors.New("empty storage key")
	// ErrUnsealFailed is returned by Open for any undecryptable blob.
	ErrUnsealFailed = errors.New("cannot unseal session")
)

// sessionSealer is the XChaCha20-Poly1305 implementation of [SessionSealer].
type sessionSealer struct {
	key []byte
}

// NewSessionSealer derives a 256-bit key from secret with HKDF-SHA256. The
// salt scopes the key, typically to the backend project, so one secret shared
// between two projects still yields two keys.
func NewSessionSealer(secret, salt string) (SessionSealer, error) {
	if secret == "" {
		return nil, ErrEmptyKey
	}

	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, []byte(secret), []byte(salt), []byte(sealerInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	return &sessionSealer{key: key}, nil
}

// Seal implements [SessionSealer].
func (s *sessionSealer) Seal(plaintext []byte, label string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("create aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := aead.Seal(nonce, nonce, plaintext, []byte(label))
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [SessionSealer].
func (s *sessionSealer) Open(sealed string, label string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %w", ErrUnsealFailed, err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("create aead: %w", err)
	}

	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrUnsealFailed)
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(label))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsealFailed, err)
	}

	return plaintext, nil
}
