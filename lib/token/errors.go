// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import "errors"

// Codec-level error. Unknown-policy failures surface as a wrapped
// policy.ErrUnknownPolicy instead, so callers that care can tell the
// two apart; Authority merges both into ErrBadAccessTokenEncoding.
var (
	// ErrMalformedPayload is returned by FromBytes when the payload's
	// tag/length framing is invalid.
	ErrMalformedPayload = errors.New("token: malformed payload")
)

// Errors returned by Authority.Enforce and AccessToken.Refresh. Each
// corresponds to exactly one transition of the validation sequence:
// extract, decode envelope, verify, parse payload, check expiry,
// check authorization.
var (
	// ErrUnauthorized means the Authorization header is missing or
	// not a well-formed bearer header.
	ErrUnauthorized = errors.New("token: unauthorized")

	// ErrBadSignedMessageEncoding means the credential did not parse
	// as a signed-message envelope.
	ErrBadSignedMessageEncoding = errors.New("token: bad signed message encoding")

	// ErrSignatureVerificationFail means the envelope parsed but its
	// signature does not verify under the trusted public key.
	ErrSignatureVerificationFail = errors.New("token: signature verification failed")

	// ErrBadAccessTokenEncoding means the signed payload did not
	// decode to a valid access token (bad framing or unknown policy).
	ErrBadAccessTokenEncoding = errors.New("token: bad access token encoding")

	// ErrExpiredAccessToken means the token's validity window or the
	// account's login horizon has passed.
	ErrExpiredAccessToken = errors.New("token: access token expired")

	// ErrForbidden means the token is valid but its policy set does
	// not satisfy the enforcement condition.
	ErrForbidden = errors.New("token: forbidden")
)
