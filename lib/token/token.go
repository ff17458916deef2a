// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"crypto/ed25519"
	"sort"
	"time"

	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/signedmsg"
)

// AccessToken is the decoded payload of a bearer credential. Times are
// UTC with millisecond precision, matching the wire representation.
type AccessToken struct {
	AccountID int64
	LastLogin time.Time
	NotBefore time.Time
	NotAfter  time.Time
	Policies  policy.Set
}

// New mints a token for a fresh password login: the validity window
// starts now and last_login is set to now.
func New(accountID int64, policies policy.Set, ttl time.Duration, now time.Time) *AccessToken {
	now = now.UTC().Truncate(time.Millisecond)
	return &AccessToken{
		AccountID: accountID,
		LastLogin: now,
		NotBefore: now,
		NotAfter:  now.Add(ttl),
		Policies:  policies,
	}
}

// Refresh mints a successor token with a fresh validity window and the
// given (freshly materialized) policy set, preserving the original
// last_login. It fails with ErrExpiredAccessToken once now has reached
// last_login + maxLogin: no chain of refreshes extends a session past
// the absolute login horizon.
func (t *AccessToken) Refresh(policies policy.Set, ttl, maxLogin time.Duration, now time.Time) (*AccessToken, error) {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.Before(t.LastLogin.Add(maxLogin)) {
		return nil, ErrExpiredAccessToken
	}
	return &AccessToken{
		AccountID: t.AccountID,
		LastLogin: t.LastLogin,
		NotBefore: now,
		NotAfter:  now.Add(ttl),
		Policies:  policies,
	}, nil
}

// ExpiredAt reports whether the validity window excludes the given
// instant. The window includes not_before and excludes not_after.
func (t *AccessToken) ExpiredAt(now time.Time) bool {
	return now.Before(t.NotBefore) || !now.Before(t.NotAfter)
}

// Seal encodes the payload, signs it, and returns the bearer
// credential string.
func (t *AccessToken) Seal(private ed25519.PrivateKey) string {
	return signedmsg.Create(t.Bytes(), private).Encode()
}

// Equal reports whether two tokens carry the same payload.
func (t *AccessToken) Equal(o *AccessToken) bool {
	return t.AccountID == o.AccountID &&
		t.LastLogin.Equal(o.LastLogin) &&
		t.NotBefore.Equal(o.NotBefore) &&
		t.NotAfter.Equal(o.NotAfter) &&
		t.Policies == o.Policies
}

// Info is the JSON projection of a token used by the diagnostic
// parse-token endpoint.
type Info struct {
	AccountID int64    `json:"account_id"`
	LastLogin string   `json:"last_login"`
	NotBefore string   `json:"not_before"`
	NotAfter  string   `json:"not_after"`
	Policies  []string `json:"policies"`
}

// Info renders the token with RFC 3339 timestamps and policy names
// sorted alphabetically.
func (t *AccessToken) Info() Info {
	names := t.Policies.Names()
	sort.Strings(names)
	return Info{
		AccountID: t.AccountID,
		LastLogin: t.LastLogin.Format(time.RFC3339),
		NotBefore: t.NotBefore.Format(time.RFC3339),
		NotAfter:  t.NotAfter.Format(time.RFC3339),
		Policies:  names,
	}
}
