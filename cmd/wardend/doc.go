// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// wardend is the Warden account and access-token service.
//
// It serves the authentication surface (sign-in, token refresh,
// password change), policy-gated account administration, and a few
// diagnostic endpoints, all as JSON over HTTP. Accounts live in a
// local SQLite database; access tokens are stateless Ed25519-signed
// credentials carrying a policy bitmap.
//
// Configuration comes from a YAML file named by WARDEN_CONFIG or
// --config; with neither set, wardend runs with built-in development
// defaults (including a well-known dev signing key — never expose
// that listener).
package main
