// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts wall-clock time for testability.
//
// Production code injects Real(); tests inject Fake() and drive time
// with Advance. Token expiry, refresh horizons, hashing timeouts, and
// the junk-hash delay all read time through this interface, so the
// whole authentication path can be tested deterministically.
package clock
