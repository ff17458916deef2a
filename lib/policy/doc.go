// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package policy defines the authorization model carried by Warden
// access tokens: individual permissions (Policy), coarse bundles that
// expand to permission sets (Role), the compact bitmap encoding of a
// permission set, and the condition algebra evaluated at enforcement
// sites.
//
// Discriminants are wire-stable: a policy's number never changes
// across releases, and removing or renumbering one is a breaking
// change. Low discriminants are reserved to leave room for growth;
// they are valid values of the type but no role grants them.
//
// # Bitmap encoding
//
// A permission set serializes as a packed bitmap: byte i, bit j
// (LSB-first) is set iff discriminant 8*i+j is present. Trailing zero
// bytes are omitted on emit and tolerated on parse. A set bit whose
// index is not a known discriminant fails decoding with
// ErrUnknownPolicy — a token minted by a newer release with policies
// this build does not know about must not be silently narrowed.
package policy
