// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signedmsg

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadEncoding is returned by Decode when the input does not split
// into two valid base64url segments with a 64-byte signature.
var ErrBadEncoding = errors.New("signedmsg: bad signed message encoding")

// encoding is unpadded URL-safe base64, shared by both segments.
var encoding = base64.RawURLEncoding

// SignedMessage pairs an opaque payload with its Ed25519 signature.
// Decode does not verify; call Verify with the expected public key.
type SignedMessage struct {
	message   []byte
	signature []byte
}

// Create signs message with the private key and returns the envelope.
func Create(message []byte, key ed25519.PrivateKey) SignedMessage {
	return SignedMessage{
		message:   message,
		signature: ed25519.Sign(key, message),
	}
}

// Message returns the payload bytes.
func (m SignedMessage) Message() []byte { return m.message }

// Signature returns the signature bytes.
func (m SignedMessage) Signature() []byte { return m.signature }

// Encode serializes the envelope to its textual form.
func (m SignedMessage) Encode() string {
	var b strings.Builder
	b.Grow(encoding.EncodedLen(len(m.message)) + 1 + encoding.EncodedLen(len(m.signature)))
	b.WriteString(encoding.EncodeToString(m.message))
	b.WriteByte('.')
	b.WriteString(encoding.EncodeToString(m.signature))
	return b.String()
}

// Decode parses the textual form back into an envelope. It fails with
// ErrBadEncoding if the dot split or either base64 decode fails, or
// if the signature segment is not exactly ed25519.SignatureSize bytes.
// The signature is NOT verified here.
func Decode(s string) (SignedMessage, error) {
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return SignedMessage{}, ErrBadEncoding
	}

	message, err := encoding.DecodeString(s[:dot])
	if err != nil {
		return SignedMessage{}, ErrBadEncoding
	}
	signature, err := encoding.DecodeString(s[dot+1:])
	if err != nil {
		return SignedMessage{}, ErrBadEncoding
	}
	if len(signature) != ed25519.SignatureSize {
		return SignedMessage{}, ErrBadEncoding
	}

	return SignedMessage{message: message, signature: signature}, nil
}

// Verify reports whether the signature is valid for the payload under
// the given public key. Constant-time in the signature comparison,
// never panics on arbitrary envelope contents.
func (m SignedMessage) Verify(key ed25519.PublicKey) bool {
	if len(key) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(key, m.message, m.signature)
}
