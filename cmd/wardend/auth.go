// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/bureau-foundation/warden/lib/api"
	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/store"
	"github.com/bureau-foundation/warden/lib/token"
)

func (s *server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad request")
		return
	}

	account, ok := s.loginAccount(r.Context(), w, req.Username)
	if !ok {
		return
	}
	if !s.verifyPassword(r.Context(), w, account, req.Password) {
		return
	}

	policies, err := s.grantedPolicies(account)
	if err != nil {
		s.logger.Error("sign-in rejected, bad grants",
			"account_id", account.ID,
			"error", err,
		)
		api.WriteInternal(w)
		return
	}

	issued := token.New(account.ID, policies, s.config.TokenTTL(), s.clock.Now())
	sealed := issued.Seal(s.private)

	s.logger.Info("sign-in",
		"account_id", account.ID,
		"token_fp", fingerprint([]byte(sealed)),
		"not_after", issued.NotAfter,
	)
	api.WriteData(w, map[string]any{
		"id":        account.ID,
		"token":     sealed,
		"not_after": issued.NotAfter.In(s.notAfter).Format(time.RFC3339),
	})
}

func (s *server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	current, ok := s.enforce(w, r, policy.Nil())
	if !ok {
		return
	}

	// Grants are re-read so a refresh reflects revocations made since
	// the token was minted.
	account, err := s.store.GetByID(r.Context(), current.AccountID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		api.WriteStatus(w, http.StatusUnauthorized, "invalid access token")
		return
	case err != nil:
		s.logger.Error("account lookup failed",
			"account_id", current.AccountID,
			"error", err,
		)
		api.WriteInternal(w)
		return
	}

	policies, err := s.grantedPolicies(account)
	if err != nil {
		s.logger.Error("refresh rejected, bad grants",
			"account_id", account.ID,
			"error", err,
		)
		api.WriteInternal(w)
		return
	}

	refreshed, err := current.Refresh(policies, s.config.TokenTTL(), s.config.MaxLogin(), s.clock.Now())
	if err != nil {
		api.WriteTokenError(w, err)
		return
	}
	sealed := refreshed.Seal(s.private)

	s.logger.Info("token refreshed",
		"account_id", account.ID,
		"token_fp", fingerprint([]byte(sealed)),
		"last_login", refreshed.LastLogin,
	)
	api.WriteData(w, map[string]any{"token": sealed})
}

func (s *server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad request")
		return
	}
	if !legalPassword(req.NewPassword) {
		api.WriteError(w, api.ErrIllegalPassword)
		return
	}

	account, ok := s.loginAccount(r.Context(), w, req.Username)
	if !ok {
		return
	}
	if !s.verifyPassword(r.Context(), w, account, req.CurrentPassword) {
		return
	}

	hash, err := s.hasher.Hash(r.Context(), req.NewPassword)
	if err != nil {
		s.logger.Error("password hashing failed",
			"account_id", account.ID,
			"error", err,
		)
		api.WriteInternal(w)
		return
	}
	if err := s.store.ChangePassword(r.Context(), account.ID, hash); err != nil {
		s.logger.Error("password update failed",
			"account_id", account.ID,
			"error", err,
		)
		api.WriteInternal(w)
		return
	}

	s.logger.Info("password changed", "account_id", account.ID)
	api.WriteData(w, struct{}{})
}
