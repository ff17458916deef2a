// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"net/http"

	"github.com/bureau-foundation/warden/lib/api"
	"github.com/bureau-foundation/warden/lib/password"
	"github.com/bureau-foundation/warden/lib/policy"
	"github.com/bureau-foundation/warden/lib/signedmsg"
	"github.com/bureau-foundation/warden/lib/token"
)

// handleParseToken decodes a caller-supplied credential for
// inspection. The signature must verify under this service's key, but
// expiry is deliberately not checked: the point is examining dead
// tokens.
func (s *server) handleParseToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.enforce(w, r, policy.Any(policy.ParseAccessToken)); !ok {
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad request")
		return
	}

	// All parse failures collapse to one answer: this endpoint must
	// not be a more talkative oracle than the enforcer.
	envelope, err := signedmsg.Decode(req.Token)
	if err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad access token")
		return
	}
	if !envelope.Verify(s.authority.PublicKey()) {
		api.WriteStatus(w, http.StatusBadRequest, "bad access token")
		return
	}
	parsed, err := token.FromBytes(envelope.Message())
	if err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad access token")
		return
	}

	api.WriteData(w, parsed.Info())
}

func (s *server) handleEncodePassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.enforce(w, r, policy.Any(policy.EncodePassword)); !ok {
		return
	}

	var req struct {
		Password string `json:"password"`
		Cost     int    `json:"cost"`
	}
	if err := api.ReadJSON(w, r, &req); err != nil {
		api.WriteStatus(w, http.StatusBadRequest, "bad request")
		return
	}

	hasher := s.hasher
	if req.Cost != 0 && req.Cost != hasher.Cost() {
		var err error
		hasher, err = password.NewHasher(req.Cost, s.clock)
		if errors.Is(err, password.ErrBadCost) {
			api.WriteStatus(w, http.StatusBadRequest, "bad bcrypt cost")
			return
		}
		if err != nil {
			s.logger.Error("hasher construction failed", "error", err)
			api.WriteInternal(w)
			return
		}
	}

	hash, err := hasher.Hash(r.Context(), req.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		api.WriteInternal(w)
		return
	}
	api.WriteData(w, map[string]any{"hash": hash})
}
