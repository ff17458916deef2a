// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import "strconv"

// Role is a named bundle of policies granted together. Like Policy,
// the numeric value is the wire discriminant; discriminant 0 is
// reserved.
type Role uint16

const (
	// RoleReserved0 is the reserved zero discriminant. No account
	// holds it.
	RoleReserved0 Role = iota

	// Admin holds every operational permission.
	Admin

	// MakerUser is a data-entry role. It currently grants no
	// policies of its own; accounts get extra policies through the
	// per-account policy list.
	MakerUser
)

// MaxRoleDiscriminant is the highest known role discriminant.
const MaxRoleDiscriminant = uint16(MakerUser)

var roleNames = [...]string{
	RoleReserved0: "RoleReserved0",
	Admin:         "Admin",
	MakerUser:     "MakerUser",
}

// rolePolicies is the static role expansion table. Initialized once at
// package load and read-only afterwards.
var rolePolicies = map[Role][]Policy{
	Admin: {
		CreateAccount,
		EncodePassword,
		ListAccounts,
		ListAnyActor,
		ParseAccessToken,
		QueryGraphQL,
		Reserved16,
	},
}

// RoleFromDiscriminant returns the Role for a wire discriminant, and
// whether the discriminant is known.
func RoleFromDiscriminant(d uint16) (Role, bool) {
	if d > MaxRoleDiscriminant {
		return 0, false
	}
	return Role(d), true
}

// Discriminant returns the stable wire number of the role.
func (r Role) Discriminant() uint16 { return uint16(r) }

// Known reports whether r is a defined role value.
func (r Role) Known() bool { return uint16(r) <= MaxRoleDiscriminant }

// Name returns the stable name of the role.
func (r Role) Name() string {
	if !r.Known() {
		return "Unknown(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

func (r Role) String() string { return r.Name() }

// Policies returns the ordered list of policies the role expands to.
// The returned slice is a copy; callers may mutate it.
func (r Role) Policies() []Policy {
	expansion := rolePolicies[r]
	out := make([]Policy, len(expansion))
	copy(out, expansion)
	return out
}
