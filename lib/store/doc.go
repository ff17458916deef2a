// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists accounts in SQLite.
//
// It wraps zombiezen.com/go/sqlite with production defaults: WAL
// journal mode, NORMAL synchronous, busy timeout for write contention,
// and a fixed-size connection pool. Callers get typed account
// operations; there is no query builder and no ORM — the handful of
// statements this service needs are written out in account.go.
//
// Role and policy grants are stored as JSON arrays of numeric
// discriminants (for example "[1]" or "[10,14]"), exactly the form
// lib/policy's BuildSet consumes. The store does not validate grant
// contents; unknown discriminants are detected at token-issue time so
// a bad row disables one account instead of poisoning startup.
//
// Seed loads bootstrap accounts from a JSONC file on first start (the
// account table being empty), so a fresh deployment has an admin login
// without hand-editing the database.
package store
