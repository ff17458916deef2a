// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/signedmsg"
	"github.com/bureau-foundation/warden/lib/token"
)

func TestSignIn(t *testing.T) {
	srv, _ := testServer(t)
	id := createAccount(t, srv, "admin", "hunter22", true, "[1]", "[]")

	recorder := do(t, srv, http.MethodPost, "/auth/sign-in", "",
		`{"username": "admin", "password": "hunter22"}`)

	var resp struct {
		ID       int64  `json:"id"`
		Token    string `json:"token"`
		NotAfter string `json:"not_after"`
	}
	wantData(t, recorder, &resp)
	if resp.ID != id {
		t.Errorf("id = %d, want %d", resp.ID, id)
	}
	// Default display offset is +07:00; the wire token stays UTC.
	if !strings.HasSuffix(resp.NotAfter, "+07:00") {
		t.Errorf("not_after = %q, want +07:00 offset", resp.NotAfter)
	}

	// The issued credential must pass the service's own enforcer and
	// carry the Admin role's policies.
	parsed, err := srv.authority.Enforce(policy.Nil(), "Bearer "+resp.Token)
	if err != nil {
		t.Fatalf("Enforce on issued token: %v", err)
	}
	if parsed.AccountID != id {
		t.Errorf("token account id = %d, want %d", parsed.AccountID, id)
	}
	if parsed.Policies.IsEmpty() {
		t.Error("admin token carries no policies")
	}
	if !parsed.LastLogin.Equal(epoch) {
		t.Errorf("last_login = %v, want %v", parsed.LastLogin, epoch)
	}
}

func TestSignInRejections(t *testing.T) {
	srv, clk := testServer(t)
	createAccount(t, srv, "admin", "hunter22", true, "[1]", "[]")
	createAccount(t, srv, "locked", "hunter22", false, "[]", "[]")

	tests := []struct {
		name string
		body string
	}{
		{"unknown username", `{"username": "ghost", "password": "hunter22"}`},
		{"login disabled", `{"username": "locked", "password": "hunter22"}`},
		{"wrong password", `{"username": "admin", "password": "wrong"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(t, srv, http.MethodPost, "/auth/sign-in", "", tt.body)
			wantCredentialError(t, recorder, 1001)
		})
	}

	// The two paths that never reach bcrypt burned a junk delay each;
	// the wrong-password path spent its time inside the real compare.
	if got := len(clk.Slept()); got != 2 {
		t.Errorf("junk delays = %d, want 2", got)
	}
}

func TestSignInMalformedBody(t *testing.T) {
	srv, _ := testServer(t)
	recorder := do(t, srv, http.MethodPost, "/auth/sign-in", "", `{"username": `)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	srv, clk := testServer(t)
	id := createAccount(t, srv, "admin", "hunter22", true, "[1]", "[]")
	bearer := signIn(t, srv, "admin", "hunter22")

	clk.Advance(10 * time.Minute)

	recorder := do(t, srv, http.MethodGet, "/auth/refresh-token", bearer, "")
	var resp struct {
		Token string `json:"token"`
	}
	wantData(t, recorder, &resp)

	refreshed := decodeToken(t, srv, resp.Token)
	if refreshed.AccountID != id {
		t.Errorf("account id = %d, want %d", refreshed.AccountID, id)
	}
	if !refreshed.LastLogin.Equal(epoch) {
		t.Errorf("last_login = %v, want original login %v", refreshed.LastLogin, epoch)
	}
	if want := epoch.Add(10 * time.Minute); !refreshed.NotBefore.Equal(want) {
		t.Errorf("not_before = %v, want %v", refreshed.NotBefore, want)
	}
}

func TestRefreshPicksUpRevokedGrants(t *testing.T) {
	srv, clk := testServer(t)
	id := createAccount(t, srv, "admin", "hunter22", true, "[1]", "[]")
	bearer := signIn(t, srv, "admin", "hunter22")

	// An operator strips the role while the token is live.
	if err := srv.store.UpdateGrants(t.Context(), id, true, "[]", "[]"); err != nil {
		t.Fatalf("UpdateGrants: %v", err)
	}
	clk.Advance(time.Minute)

	recorder := do(t, srv, http.MethodGet, "/auth/refresh-token", bearer, "")
	var resp struct {
		Token string `json:"token"`
	}
	wantData(t, recorder, &resp)

	if refreshed := decodeToken(t, srv, resp.Token); !refreshed.Policies.IsEmpty() {
		t.Error("refreshed token still carries revoked policies")
	}
}

func TestRefreshPastLoginHorizon(t *testing.T) {
	srv, clk := testServer(t)
	createAccount(t, srv, "admin", "hunter22", true, "[1]", "[]")
	bearer := signIn(t, srv, "admin", "hunter22")

	// Chain refreshes up to the horizon; the horizon counts from the
	// password login, not from the latest refresh.
	for i := 0; i < 3; i++ {
		clk.Advance(10 * time.Minute)
		recorder := do(t, srv, http.MethodGet, "/auth/refresh-token", bearer, "")
		var resp struct {
			Token string `json:"token"`
		}
		wantData(t, recorder, &resp)
		bearer = resp.Token
	}

	clk.Advance(srv.config.MaxLogin())
	recorder := do(t, srv, http.MethodGet, "/auth/refresh-token", bearer, "")
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401, body %q", recorder.Code, recorder.Body.String())
	}
}

func TestRefreshWithoutToken(t *testing.T) {
	srv, _ := testServer(t)
	recorder := do(t, srv, http.MethodGet, "/auth/refresh-token", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

func TestChangePassword(t *testing.T) {
	srv, _ := testServer(t)
	createAccount(t, srv, "admin", "oldpass", true, "[1]", "[]")

	recorder := do(t, srv, http.MethodPost, "/auth/change-password", "",
		`{"username": "admin", "current_password": "oldpass", "new_password": "newpass"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", recorder.Code, recorder.Body.String())
	}
	if e := decode(t, recorder); e.Error != nil {
		t.Fatalf("change-password failed: %+v", e.Error)
	}

	// Old password is dead, new one works.
	wantCredentialError(t, do(t, srv, http.MethodPost, "/auth/sign-in", "",
		`{"username": "admin", "password": "oldpass"}`), 1001)
	signIn(t, srv, "admin", "newpass")
}

func TestChangePasswordRejections(t *testing.T) {
	srv, _ := testServer(t)
	createAccount(t, srv, "admin", "oldpass", true, "[1]", "[]")

	tests := []struct {
		name string
		body string
		code int
	}{
		{"short new password", `{"username": "admin", "current_password": "oldpass", "new_password": "abc"}`, 1003},
		{"wrong current password", `{"username": "admin", "current_password": "wrong", "new_password": "newpass"}`, 1001},
		{"unknown username", `{"username": "ghost", "current_password": "oldpass", "new_password": "newpass"}`, 1001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCredentialError(t, do(t, srv, http.MethodPost, "/auth/change-password", "", tt.body), tt.code)
		})
	}

	// Nothing above changed the stored credential.
	signIn(t, srv, "admin", "oldpass")
}

// decodeToken opens a sealed credential for inspection using the
// server's verification key.
func decodeToken(t *testing.T, srv *server, sealed string) *token.AccessToken {
	t.Helper()
	envelope, err := signedmsg.Decode(sealed)
	if err != nil {
		t.Fatalf("decoding credential: %v", err)
	}
	if !envelope.Verify(srv.authority.PublicKey()) {
		t.Fatal("credential does not verify")
	}
	parsed, err := token.FromBytes(envelope.Message())
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	return parsed
}
