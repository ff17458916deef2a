// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package api defines the JSON wire envelope of the Warden HTTP
// surface and the mapping from internal errors onto it.
//
// Every response body is one of:
//
//	{"data": ...}
//	{"error": {"code": N, "message": "..."}}
//
// Two error regimes share the envelope. Token and transport problems
// carry an HTTP status (400, 401, 403, 500) and use the status as the
// code. Credential problems — wrong password, unknown username, bad
// input on the auth endpoints — are application outcomes: they return
// HTTP 200 with a domain code (1001 and up), so transport-level
// monitoring does not distinguish a failed login from a successful
// one, and neither can a network observer.
package api
