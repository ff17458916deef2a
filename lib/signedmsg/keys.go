// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signedmsg

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrBadKeyEncoding is returned when a configured key string does not
// decode to a key of the expected length.
var ErrBadKeyEncoding = errors.New("signedmsg: bad key encoding")

// ParsePublicKey decodes an unpadded base64url public key from
// configuration. The decoded value must be exactly 32 bytes.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeyEncoding, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key has %d bytes, want %d", ErrBadKeyEncoding, len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// ParsePrivateKey decodes an unpadded base64url private key from
// configuration. A 32-byte value is treated as an Ed25519 seed
// (the form produced by most key generators); a 64-byte value is the
// expanded private key. Anything else fails with ErrBadKeyEncoding.
func ParsePrivateKey(s string) (ed25519.PrivateKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeyEncoding, err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	}
	return nil, fmt.Errorf("%w: private key has %d bytes, want %d or %d", ErrBadKeyEncoding, len(raw), ed25519.SeedSize, ed25519.PrivateKeySize)
}

// GenerateKeypair creates a new Ed25519 keypair and returns both keys
// in the unpadded base64url form used in configuration files. The
// private key is returned as its 32-byte seed.
func GenerateKeypair() (publicKey, privateKey string, err error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generating Ed25519 keypair: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(public),
		base64.RawURLEncoding.EncodeToString(private.Seed()), nil
}
