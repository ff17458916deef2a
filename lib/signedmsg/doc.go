// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signedmsg implements the Ed25519 envelope that carries
// Warden access tokens: an opaque payload paired with a fixed-length
// signature, serialized into a URL- and header-safe string.
//
// # Wire format
//
//	b64url(payload) "." b64url(signature)
//
// Both segments use unpadded URL-safe base64. The split point is the
// LAST dot — the base64url alphabet contains no dot, but last-split is
// the safe policy regardless. The signature segment must decode to
// exactly 64 bytes.
//
// The envelope keeps the payload opaque: nothing here inspects or
// re-validates token fields. Decode defers verification — callers
// decode first, then Verify against the public key they trust.
package signedmsg
