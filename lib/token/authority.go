// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"crypto/ed25519"
	"errors"
	"regexp"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/signedmsg"
)

// bearerPattern matches the whole Authorization header value: the
// literal scheme, one space, and a non-empty credential with no
// whitespace. Trailing garbage after the credential is a reject.
var bearerPattern = regexp.MustCompile(`^Bearer (\S+)$`)

// ExtractBearer pulls the credential out of an Authorization header
// value. ok is false when the header is not a well-formed bearer
// header.
func ExtractBearer(authorization string) (credential string, ok bool) {
	m := bearerPattern.FindStringSubmatch(authorization)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Authority validates bearer credentials against a trusted public key.
type Authority struct {
	public ed25519.PublicKey
	clock  clock.Clock
}

// NewAuthority builds an Authority. The clock decides "now" for expiry
// checks; pass clock.Real outside of tests.
func NewAuthority(public ed25519.PublicKey, clk clock.Clock) *Authority {
	return &Authority{public: public, clock: clk}
}

// PublicKey returns the trusted verification key.
func (a *Authority) PublicKey() ed25519.PublicKey {
	return a.public
}

// Enforce validates the Authorization header value and checks the
// carried policy set against cond. Validation is a fixed sequence and
// each step maps to exactly one sentinel error:
//
//	extract bearer        -> ErrUnauthorized
//	decode envelope       -> ErrBadSignedMessageEncoding
//	verify signature      -> ErrSignatureVerificationFail
//	decode payload        -> ErrBadAccessTokenEncoding
//	check validity window -> ErrExpiredAccessToken
//	evaluate condition    -> ErrForbidden
//
// The signature is verified before the payload is decoded, so codec
// errors are only ever reported for authentic tokens.
func (a *Authority) Enforce(cond policy.Condition, authorization string) (*AccessToken, error) {
	credential, ok := ExtractBearer(authorization)
	if !ok {
		return nil, ErrUnauthorized
	}
	envelope, err := signedmsg.Decode(credential)
	if err != nil {
		return nil, ErrBadSignedMessageEncoding
	}
	if !envelope.Verify(a.public) {
		return nil, ErrSignatureVerificationFail
	}
	tok, err := FromBytes(envelope.Message())
	if err != nil {
		return nil, errors.Join(ErrBadAccessTokenEncoding, err)
	}
	if tok.ExpiredAt(a.clock.Now()) {
		return nil, ErrExpiredAccessToken
	}
	if !cond.SatisfiedBy(tok.Policies) {
		return nil, ErrForbidden
	}
	return tok, nil
}
