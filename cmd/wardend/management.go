// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/api"
)

// managementRoutes builds the handler for the management listener.
// It is bound separately from the public API so deployments can keep
// it off the public network entirely.
func (s *server) managementRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /management/config", s.handleManagementConfig)
	return mux
}

// handleManagementConfig prints the active configuration as YAML with
// secrets masked.
func (s *server) handleManagementConfig(w http.ResponseWriter, r *http.Request) {
	out, err := yaml.Marshal(s.config.Masked())
	if err != nil {
		s.logger.Error("config marshalling failed", "error", err)
		api.WriteInternal(w)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(out)
}
