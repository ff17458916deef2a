// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/warden/lib/api"
	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/config"
	"github.com/bureau-foundation/warden/lib/password"
	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/signedmsg"
	"github.com/bureau-foundation/warden/lib/store"
	"github.com/bureau-foundation/warden/lib/token"
)

// server holds the wired dependencies of every HTTP handler.
type server struct {
	config    *config.Config
	logger    *slog.Logger
	store     *store.Store
	hasher    *password.Hasher
	authority *token.Authority
	private   ed25519.PrivateKey
	clock     clock.Clock
	notAfter  *time.Location
}

func newServer(cfg *config.Config, logger *slog.Logger, accounts *store.Store, clk clock.Clock) (*server, error) {
	public, err := signedmsg.ParsePublicKey(cfg.Auth.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("auth.public_key: %w", err)
	}
	private, err := signedmsg.ParsePrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("auth.private_key: %w", err)
	}
	hasher, err := password.NewHasher(cfg.Auth.BcryptCost, clk)
	if err != nil {
		return nil, err
	}
	location, err := cfg.NotAfterLocation()
	if err != nil {
		return nil, err
	}

	return &server{
		config:    cfg,
		logger:    logger,
		store:     accounts,
		hasher:    hasher,
		authority: token.NewAuthority(public, clk),
		private:   private,
		clock:     clk,
		notAfter:  location,
	}, nil
}

// routes builds the public API handler.
func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/sign-in", s.handleSignIn)
	mux.HandleFunc("GET /auth/refresh-token", s.handleRefreshToken)
	mux.HandleFunc("POST /auth/change-password", s.handleChangePassword)
	mux.HandleFunc("POST /account/create", s.handleAccountCreate)
	mux.HandleFunc("GET /account/list", s.handleAccountList)
	mux.HandleFunc("POST /dev/parse-token", s.handleParseToken)
	mux.HandleFunc("POST /dev/encode-password", s.handleEncodePassword)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /request-headers", s.handleRequestHeaders)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	return mux
}

// enforce validates the request's bearer token against cond and writes
// the error response on failure.
func (s *server) enforce(w http.ResponseWriter, r *http.Request, cond policy.Condition) (*token.AccessToken, bool) {
	tok, err := s.authority.Enforce(cond, r.Header.Get("Authorization"))
	if err != nil {
		api.WriteTokenError(w, err)
		return nil, false
	}
	return tok, true
}

// grantedPolicies materializes an account's current policy set from
// its stored role and policy grants.
func (s *server) grantedPolicies(account *store.Account) (policy.Set, error) {
	set, err := policy.BuildSet(account.ID, account.Roles, account.Policies)
	if err != nil {
		return policy.Set{}, fmt.Errorf("materializing grants: %w", err)
	}
	return set, nil
}

// loginAccount looks up a username for password authentication. The
// two rejection reasons a caller must not be able to tell apart —
// unknown username and login disabled — both burn a junk-hash delay
// and answer with the shared credential error.
func (s *server) loginAccount(ctx context.Context, w http.ResponseWriter, username string) (*store.Account, bool) {
	account, err := s.store.GetByName(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.hasher.JunkDelay()
		api.WriteError(w, api.ErrInvalidUserNameOrPassword)
		return nil, false
	case err != nil:
		s.logger.Error("account lookup failed", "error", err)
		api.WriteInternal(w)
		return nil, false
	case !account.AllowLogin:
		s.hasher.JunkDelay()
		api.WriteError(w, api.ErrInvalidUserNameOrPassword)
		return nil, false
	}
	return account, true
}

// verifyPassword checks a password against the account's stored hash,
// writing the error response on failure.
func (s *server) verifyPassword(ctx context.Context, w http.ResponseWriter, account *store.Account, pw string) bool {
	err := s.hasher.Verify(ctx, account.PasswordHash, pw)
	switch {
	case err == nil:
		return true
	case errors.Is(err, password.ErrMismatch):
		api.WriteError(w, api.ErrInvalidUserNameOrPassword)
		return false
	default:
		s.logger.Error("password verification failed",
			"account_id", account.ID,
			"error", err,
		)
		api.WriteInternal(w)
		return false
	}
}

// fingerprint returns a short blake3 digest for logging credentials
// and keys without ever logging the material itself.
func fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
