// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import "strings"

type conditionKind uint8

const (
	condNil conditionKind = iota
	condAny
	condAll
	condAnyOf
)

// Condition is a small predicate over policy sets evaluated at
// enforcement sites. Routes capture their Condition at wiring time,
// so values are cheap to clone and comparable with Equal.
type Condition struct {
	kind     conditionKind
	policies []Policy
}

// Nil returns the always-satisfied condition.
func Nil() Condition { return Condition{} }

// Any returns a condition requiring the single policy p.
func Any(p Policy) Condition {
	return Condition{kind: condAny, policies: []Policy{p}}
}

// All returns a condition requiring every listed policy. With no
// arguments it degenerates to Nil.
func All(policies ...Policy) Condition {
	if len(policies) == 0 {
		return Nil()
	}
	return Condition{kind: condAll, policies: policies}
}

// AnyOf returns a condition requiring at least one listed policy.
// With no arguments it is never satisfied — an empty AnyOf at a
// wiring site is a bug, and failing closed surfaces it.
func AnyOf(policies ...Policy) Condition {
	return Condition{kind: condAnyOf, policies: policies}
}

// SatisfiedBy reports whether the policy set meets the condition.
func (c Condition) SatisfiedBy(s Set) bool {
	switch c.kind {
	case condNil:
		return true
	case condAny, condAll:
		for _, p := range c.policies {
			if !s.Contains(p) {
				return false
			}
		}
		return true
	case condAnyOf:
		for _, p := range c.policies {
			if s.Contains(p) {
				return true
			}
		}
		return false
	}
	return false
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	if c.policies == nil {
		return Condition{kind: c.kind}
	}
	policies := make([]Policy, len(c.policies))
	copy(policies, c.policies)
	return Condition{kind: c.kind, policies: policies}
}

// Equal reports structural equality: same variant, same policies in
// the same order.
func (c Condition) Equal(other Condition) bool {
	if c.kind != other.kind || len(c.policies) != len(other.policies) {
		return false
	}
	for i, p := range c.policies {
		if other.policies[i] != p {
			return false
		}
	}
	return true
}

// String renders the condition for logs, e.g. "All(ListAccounts,
// CreateAccount)".
func (c Condition) String() string {
	names := make([]string, len(c.policies))
	for i, p := range c.policies {
		names[i] = p.Name()
	}
	joined := strings.Join(names, ", ")
	switch c.kind {
	case condNil:
		return "Nil"
	case condAny:
		return "Any(" + joined + ")"
	case condAll:
		return "All(" + joined + ")"
	case condAnyOf:
		return "AnyOf(" + joined + ")"
	}
	return "Invalid"
}
