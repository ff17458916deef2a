// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token implements Warden's policy-bearing access token: a
// compact signed credential carrying an account identity, a validity
// window, and a bitmap of granted policies.
//
// # Wire format
//
// The payload is a field-tagged binary message compatible with proto3,
// hand-encoded with protowire:
//
//	1 varint  account_id  (int64)
//	2 varint  last_login  (unix milliseconds)
//	3 varint  not_before  (unix milliseconds)
//	4 varint  not_after   (unix milliseconds)
//	5 bytes   policies    (packed policy bitmap)
//
// Zero-valued integers are omitted on the wire; unknown fields are
// skipped on parse for forward compatibility. The payload travels
// inside a signedmsg envelope, so the full bearer credential is
// b64url(payload) "." b64url(signature).
//
// # Lifecycle
//
// New mints a token after a password login: last_login and not_before
// are the mint time, not_after is mint time plus the configured TTL.
// Refresh re-mints with a fresh validity window and freshly
// materialized policies while preserving last_login, and refuses once
// the absolute login horizon has passed — however many refreshes
// happened in between, the client must re-authenticate with a
// password at most max-login after the original one. Tokens are
// stateless: nothing here revokes a token before not_after.
//
// Authority is the request-side validator: it extracts the bearer
// credential from an Authorization header, verifies the envelope,
// decodes the payload, checks expiry, and evaluates a
// policy.Condition against the carried set.
package token
