// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/config"
	"github.com/bureau-foundation/warden/lib/store"
)

var epoch = time.UnixMilli(1_700_000_000_000).UTC()

// testServer wires a full server against a temp database, a fake
// clock, and the fastest bcrypt cost.
func testServer(t *testing.T) (*server, *clock.FakeClock) {
	t.Helper()

	clk := clock.Fake(epoch)
	cfg := config.Default()
	cfg.Auth.BcryptCost = 4
	cfg.Database.Path = filepath.Join(t.TempDir(), "warden.db")

	accounts, err := store.Open(store.Config{
		Path:     cfg.Database.Path,
		PoolSize: 2,
		Clock:    clk,
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := accounts.Close(); err != nil {
			t.Errorf("store.Close: %v", err)
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := newServer(cfg, logger, accounts, clk)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	return srv, clk
}

// createAccount inserts an account with the given grants and returns
// its id.
func createAccount(t *testing.T, srv *server, name, pw string, allowLogin bool, roles, policies string) int64 {
	t.Helper()
	ctx := context.Background()

	hash, err := srv.hasher.Hash(ctx, pw)
	if err != nil {
		t.Fatalf("hashing %s password: %v", name, err)
	}
	id, err := srv.store.Create(ctx, name, hash)
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
	if err := srv.store.UpdateGrants(ctx, id, allowLogin, roles, policies); err != nil {
		t.Fatalf("granting %s: %v", name, err)
	}
	return id
}

// do runs one request through the public routes.
func do(t *testing.T, srv *server, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	srv.routes().ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &e); err != nil {
		t.Fatalf("decoding response %q: %v", recorder.Body.String(), err)
	}
	return e
}

// wantData asserts a 200 data response and unmarshals it into v.
func wantData(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", recorder.Code, recorder.Body.String())
	}
	e := decode(t, recorder)
	if e.Error != nil {
		t.Fatalf("unexpected error response: %+v", e.Error)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		t.Fatalf("decoding data %q: %v", e.Data, err)
	}
}

// wantCredentialError asserts HTTP 200 with the given domain code.
func wantCredentialError(t *testing.T, recorder *httptest.ResponseRecorder, code int) {
	t.Helper()
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %q", recorder.Code, recorder.Body.String())
	}
	e := decode(t, recorder)
	if e.Error == nil {
		t.Fatalf("want error %d, got data %q", code, recorder.Body.String())
	}
	if e.Error.Code != code {
		t.Errorf("error code = %d, want %d", e.Error.Code, code)
	}
}

// signIn runs a sign-in and returns the issued bearer credential.
func signIn(t *testing.T, srv *server, username, pw string) string {
	t.Helper()
	recorder := do(t, srv, http.MethodPost, "/auth/sign-in", "",
		`{"username": "`+username+`", "password": "`+pw+`"}`)
	var resp struct {
		Token string `json:"token"`
	}
	wantData(t, recorder, &resp)
	if resp.Token == "" {
		t.Fatal("sign-in returned an empty token")
	}
	return resp.Token
}
