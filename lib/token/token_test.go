// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/bureau-foundation/warden/lib/policy"
)

var epoch = time.UnixMilli(1_700_000_000_000).UTC()

func TestNewValidityWindow(t *testing.T) {
	tok := New(42, policy.NewSet(policy.ParseAccessToken), 30*time.Minute, epoch)

	if tok.AccountID != 42 {
		t.Errorf("AccountID = %d, want 42", tok.AccountID)
	}
	if !tok.LastLogin.Equal(epoch) || !tok.NotBefore.Equal(epoch) {
		t.Errorf("LastLogin/NotBefore = %v/%v, want %v", tok.LastLogin, tok.NotBefore, epoch)
	}
	if want := epoch.Add(30 * time.Minute); !tok.NotAfter.Equal(want) {
		t.Errorf("NotAfter = %v, want %v", tok.NotAfter, want)
	}
}

func TestNewTruncatesToMillisecond(t *testing.T) {
	ragged := epoch.Add(1500 * time.Microsecond)
	tok := New(1, policy.NewSet(), time.Hour, ragged)
	if want := epoch.Add(time.Millisecond); !tok.NotBefore.Equal(want) {
		t.Errorf("NotBefore = %v, want %v", tok.NotBefore, want)
	}

	decoded, err := FromBytes(tok.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.Equal(tok) {
		t.Error("millisecond-truncated token did not round trip")
	}
}

func TestExpiredAt(t *testing.T) {
	tok := New(1, policy.NewSet(), time.Hour, epoch)

	tests := []struct {
		name    string
		at      time.Time
		expired bool
	}{
		{"before window", epoch.Add(-time.Millisecond), true},
		{"window start", epoch, false},
		{"inside window", epoch.Add(30 * time.Minute), false},
		{"last valid instant", epoch.Add(time.Hour - time.Millisecond), false},
		{"window end", epoch.Add(time.Hour), true},
		{"past window", epoch.Add(time.Hour + time.Millisecond), true},
	}
	for _, tt := range tests {
		if got := tok.ExpiredAt(tt.at); got != tt.expired {
			t.Errorf("%s: ExpiredAt = %v, want %v", tt.name, got, tt.expired)
		}
	}
}

func TestRefreshPreservesLastLogin(t *testing.T) {
	login := New(7, policy.FromRoles([]policy.Role{policy.Admin}), time.Hour, epoch)

	// Two refreshes in a row, each at a later instant, each with a
	// (possibly changed) policy set re-read from the account store.
	reduced := policy.NewSet(policy.ParseAccessToken)
	first, err := login.Refresh(reduced, time.Hour, 24*time.Hour, epoch.Add(50*time.Minute))
	if err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	second, err := first.Refresh(reduced, time.Hour, 24*time.Hour, epoch.Add(100*time.Minute))
	if err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	for i, tok := range []*AccessToken{first, second} {
		if !tok.LastLogin.Equal(epoch) {
			t.Errorf("refresh %d: LastLogin = %v, want original login %v", i+1, tok.LastLogin, epoch)
		}
		if tok.AccountID != 7 {
			t.Errorf("refresh %d: AccountID = %d, want 7", i+1, tok.AccountID)
		}
		if tok.Policies != reduced {
			t.Errorf("refresh %d: policies were not replaced", i+1)
		}
	}
	if want := epoch.Add(100*time.Minute + 60*time.Minute); !second.NotAfter.Equal(want) {
		t.Errorf("second NotAfter = %v, want %v", second.NotAfter, want)
	}
}

func TestRefreshLoginHorizon(t *testing.T) {
	login := New(7, policy.NewSet(policy.ParseAccessToken), time.Hour, epoch)
	maxLogin := 24 * time.Hour

	// One millisecond before the horizon still refreshes.
	if _, err := login.Refresh(login.Policies, time.Hour, maxLogin, epoch.Add(maxLogin-time.Millisecond)); err != nil {
		t.Errorf("refresh just inside horizon: %v", err)
	}

	// At and past the horizon the session is over, regardless of how
	// many intermediate refreshes happened.
	for _, at := range []time.Time{epoch.Add(maxLogin), epoch.Add(maxLogin + time.Hour)} {
		if _, err := login.Refresh(login.Policies, time.Hour, maxLogin, at); !errors.Is(err, ErrExpiredAccessToken) {
			t.Errorf("refresh at %v: got %v, want ErrExpiredAccessToken", at, err)
		}
	}
}

func TestInfoProjection(t *testing.T) {
	tok := New(42, policy.NewSet(policy.ParseAccessToken, policy.ListAccounts, policy.CreateAccount), time.Hour, epoch)
	info := tok.Info()

	if info.AccountID != 42 {
		t.Errorf("AccountID = %d, want 42", info.AccountID)
	}
	if want := "2023-11-14T22:13:20Z"; info.LastLogin != want {
		t.Errorf("LastLogin = %q, want %q", info.LastLogin, want)
	}
	if want := "2023-11-14T23:13:20Z"; info.NotAfter != want {
		t.Errorf("NotAfter = %q, want %q", info.NotAfter, want)
	}

	// Policy names are sorted alphabetically, not by discriminant.
	want := []string{"CreateAccount", "ListAccounts", "ParseAccessToken"}
	if !reflect.DeepEqual(info.Policies, want) {
		t.Errorf("Policies = %v, want %v", info.Policies, want)
	}
}
