// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/bureau-foundation/warden/lib/api"
	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/store"
)

// usernamePattern: a letter followed by at least two letters or
// digits.
var usernamePattern = regexp.MustCompile(`^[[:alpha:]][[:alnum:]]{2,}$`)

func legalUsername(name string) bool { return usernamePattern.MatchString(name) }

// legalPassword: anything longer than three bytes. Strength policy
// belongs to the operator's password tooling, not the account store.
func legalPassword(pw string) bool { return len(pw) > 3 }

func (s *server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.enforce(w, r, policy.Any(policy.CreateAccount))
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad request")
		return
	}
	if !legalUsername(req.Name) {
		api.WriteError(w, api.ErrIllegalUserName)
		return
	}
	if !legalPassword(req.Password) {
		api.WriteError(w, api.ErrIllegalPassword)
		return
	}

	hash, err := s.hasher.Hash(r.Context(), req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		api.WriteInternal(w)
		return
	}

	id, err := s.store.Create(r.Context(), req.Name, hash)
	switch {
	case errors.Is(err, store.ErrDuplicateName):
		api.WriteError(w, api.ErrUsernameAlreadyExist)
		return
	case err != nil:
		s.logger.Error("account creation failed", "error", err)
		api.WriteInternal(w)
		return
	}

	s.logger.Info("account created",
		"account_id", id,
		"name", req.Name,
		"created_by", actor.AccountID,
	)
	api.WriteData(w, map[string]any{"id": id})
}

func (s *server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.enforce(w, r, policy.Any(policy.ListAccounts)); !ok {
		return
	}

	accounts, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("account listing failed", "error", err)
		api.WriteInternal(w)
		return
	}

	type summary struct {
		ID         int64           `json:"id"`
		Name       string          `json:"name"`
		AllowLogin bool            `json:"allow_login"`
		Roles      json.RawMessage `json:"roles"`
		Policies   json.RawMessage `json:"policies"`
		CreatedAt  string          `json:"created_at"`
	}
	summaries := make([]summary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, summary{
			ID:         account.ID,
			Name:       account.Name,
			AllowLogin: account.AllowLogin,
			Roles:      json.RawMessage(account.Roles),
			Policies:   json.RawMessage(account.Policies),
			CreatedAt:  account.CreatedAt.Format(time.RFC3339),
		})
	}
	api.WriteData(w, summaries)
}
