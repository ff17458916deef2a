// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DiscriminantError reports a JSON array element that does not parse
// as a known discriminant. Token preserves the offending element
// verbatim for error messages.
type DiscriminantError struct {
	Token string
}

func (e *DiscriminantError) Error() string {
	return fmt.Sprintf("policy: invalid discriminant %q", e.Token)
}

// parseDiscriminantArray parses a JSON array of numbers ("[1,14]")
// into discriminants, validating each with known. The stored form is
// numbers, not names, for compactness.
func parseDiscriminantArray(s string, known func(uint16) bool) ([]uint16, error) {
	var raw []json.Number
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, &DiscriminantError{Token: s}
	}
	out := make([]uint16, 0, len(raw))
	for _, n := range raw {
		d, err := strconv.ParseUint(n.String(), 10, 16)
		if err != nil || !known(uint16(d)) {
			return nil, &DiscriminantError{Token: n.String()}
		}
		out = append(out, uint16(d))
	}
	return out, nil
}

// ParseRoleArray parses a JSON array of role discriminants.
func ParseRoleArray(s string) ([]Role, error) {
	discriminants, err := parseDiscriminantArray(s, func(d uint16) bool {
		_, ok := RoleFromDiscriminant(d)
		return ok
	})
	if err != nil {
		return nil, err
	}
	roles := make([]Role, len(discriminants))
	for i, d := range discriminants {
		roles[i] = Role(d)
	}
	return roles, nil
}

// ParsePolicyArray parses a JSON array of policy discriminants.
func ParsePolicyArray(s string) ([]Policy, error) {
	discriminants, err := parseDiscriminantArray(s, func(d uint16) bool {
		_, ok := FromDiscriminant(d)
		return ok
	})
	if err != nil {
		return nil, err
	}
	policies := make([]Policy, len(discriminants))
	for i, d := range discriminants {
		policies[i] = Policy(d)
	}
	return policies, nil
}

// InvalidGrantError reports a stored role or policy list that names a
// discriminant this build does not know. It carries the account id so
// operators can find the bad row.
type InvalidGrantError struct {
	AccountID int64
	Kind      string // "role" or "policy"
	ID        string
}

func (e *InvalidGrantError) Error() string {
	return fmt.Sprintf("account id = %d has invalid %s id = %s", e.AccountID, e.Kind, e.ID)
}

// BuildSet materializes an account's effective policy set from its
// stored role and extra-policy JSON arrays: roles expand first, then
// the extras union in. Order does not affect the result; role-first
// keeps audits readable.
func BuildSet(accountID int64, rolesJSON, policiesJSON string) (Set, error) {
	roles, err := ParseRoleArray(rolesJSON)
	if err != nil {
		var derr *DiscriminantError
		if errors.As(err, &derr) {
			return Set{}, &InvalidGrantError{AccountID: accountID, Kind: "role", ID: derr.Token}
		}
		return Set{}, err
	}
	set := FromRoles(roles)

	extras, err := ParsePolicyArray(policiesJSON)
	if err != nil {
		var derr *DiscriminantError
		if errors.As(err, &derr) {
			return Set{}, &InvalidGrantError{AccountID: accountID, Kind: "policy", ID: derr.Token}
		}
		return Set{}, err
	}
	set.Extend(extras)
	return set, nil
}
