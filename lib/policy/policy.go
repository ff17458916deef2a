// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import "strconv"

// Policy is a single named permission. The numeric value is the wire
// discriminant used in bitmap and JSON-array encodings.
type Policy uint16

const (
	// Discriminants 0-9 are reserved for future permissions. They
	// are valid Policy values (tokens carrying them parse) but no
	// role grants them.
	Reserved0 Policy = iota
	Reserved1
	Reserved2
	Reserved3
	Reserved4
	Reserved5
	Reserved6
	Reserved7
	Reserved8
	Reserved9

	// ParseAccessToken allows decoding arbitrary tokens via the
	// dev parse-token endpoint.
	ParseAccessToken

	// EncodePassword allows the dev encode-password endpoint.
	EncodePassword

	// QueryGraphQL allows the GraphQL query surface.
	QueryGraphQL

	// ListAnyActor allows listing actors across all owners.
	ListAnyActor

	// ListAccounts allows listing accounts.
	ListAccounts

	// CreateAccount allows creating accounts.
	CreateAccount

	// Reserved16 is a grantable reserved slot. It sits in the second
	// bitmap byte, which keeps multi-byte encodings exercised.
	Reserved16
)

// MaxDiscriminant is the highest known policy discriminant.
const MaxDiscriminant = uint16(Reserved16)

var policyNames = [...]string{
	Reserved0:        "Reserved0",
	Reserved1:        "Reserved1",
	Reserved2:        "Reserved2",
	Reserved3:        "Reserved3",
	Reserved4:        "Reserved4",
	Reserved5:        "Reserved5",
	Reserved6:        "Reserved6",
	Reserved7:        "Reserved7",
	Reserved8:        "Reserved8",
	Reserved9:        "Reserved9",
	ParseAccessToken: "ParseAccessToken",
	EncodePassword:   "EncodePassword",
	QueryGraphQL:     "QueryGraphQL",
	ListAnyActor:     "ListAnyActor",
	ListAccounts:     "ListAccounts",
	CreateAccount:    "CreateAccount",
	Reserved16:       "Reserved16",
}

// FromDiscriminant returns the Policy for a wire discriminant, and
// whether the discriminant is known.
func FromDiscriminant(d uint16) (Policy, bool) {
	if d > MaxDiscriminant {
		return 0, false
	}
	return Policy(d), true
}

// Discriminant returns the stable wire number of the policy.
func (p Policy) Discriminant() uint16 { return uint16(p) }

// Known reports whether p is a defined policy value.
func (p Policy) Known() bool { return uint16(p) <= MaxDiscriminant }

// Name returns the stable human-readable name of the policy, or
// "Unknown(n)" for values outside the known universe.
func (p Policy) Name() string {
	if !p.Known() {
		return "Unknown(" + strconv.Itoa(int(p)) + ")"
	}
	return policyNames[p]
}

func (p Policy) String() string { return p.Name() }
