// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned when a bitmap contains a set bit whose
// index is not a known policy discriminant.
var ErrUnknownPolicy = errors.New("policy: unknown policy discriminant")

// setBytes is the bitmap capacity needed for the known universe.
const setBytes = int(MaxDiscriminant)/8 + 1

// Set is an unordered set of policies. The zero value is the empty
// set. Set is a value type and comparable with ==; two sets are equal
// iff they contain the same policies.
type Set struct {
	bits [setBytes]byte
}

// NewSet returns a set containing the given policies. Unknown policy
// values are ignored.
func NewSet(policies ...Policy) Set {
	var s Set
	for _, p := range policies {
		s.Insert(p)
	}
	return s
}

// FromRoles returns the union of every role's expansion.
func FromRoles(roles []Role) Set {
	var s Set
	for _, r := range roles {
		for _, p := range rolePolicies[r] {
			s.Insert(p)
		}
	}
	return s
}

// Insert adds p to the set. Idempotent. Unknown values are ignored.
func (s *Set) Insert(p Policy) {
	if !p.Known() {
		return
	}
	s.bits[p/8] |= 1 << (p % 8)
}

// Extend unions the given policies into the set.
func (s *Set) Extend(policies []Policy) {
	for _, p := range policies {
		s.Insert(p)
	}
}

// Contains reports whether p is in the set.
func (s Set) Contains(p Policy) bool {
	if !p.Known() {
		return false
	}
	return s.bits[p/8]&(1<<(p%8)) != 0
}

// IsEmpty reports whether the set contains no policies.
func (s Set) IsEmpty() bool {
	return s == Set{}
}

// Policies returns the members in ascending discriminant order.
func (s Set) Policies() []Policy {
	var out []Policy
	for d := uint16(0); d <= MaxDiscriminant; d++ {
		if s.Contains(Policy(d)) {
			out = append(out, Policy(d))
		}
	}
	return out
}

// Names returns the member names in ascending discriminant order.
func (s Set) Names() []string {
	members := s.Policies()
	out := make([]string, len(members))
	for i, p := range members {
		out[i] = p.Name()
	}
	return out
}

// Bytes returns the packed bitmap encoding: byte i, bit j (LSB-first)
// is set iff discriminant 8*i+j is present. Trailing zero bytes are
// omitted; the empty set encodes as nil.
func (s Set) Bytes() []byte {
	end := setBytes
	for end > 0 && s.bits[end-1] == 0 {
		end--
	}
	if end == 0 {
		return nil
	}
	out := make([]byte, end)
	copy(out, s.bits[:end])
	return out
}

// ParseSetBytes decodes a packed bitmap. Any length is accepted and
// missing high bytes are treated as zero, but every set bit must map
// to a known discriminant or decoding fails with ErrUnknownPolicy.
func ParseSetBytes(data []byte) (Set, error) {
	var s Set
	for i, b := range data {
		for j := 0; j < 8; j++ {
			if b&(1<<j) == 0 {
				continue
			}
			d := i*8 + j
			if d > int(MaxDiscriminant) {
				return Set{}, fmt.Errorf("%w: %d", ErrUnknownPolicy, d)
			}
			s.bits[d/8] |= 1 << (d % 8)
		}
	}
	return s, nil
}
