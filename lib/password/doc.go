// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package password wraps bcrypt hashing behind a concurrency limiter
// and a timing-uniformity helper.
//
// Hashing is CPU-bound and deliberately slow, so a Hasher admits at
// most GOMAXPROCS concurrent operations and bounds each call
// (queueing included) by a wall-clock timeout. Login handlers that
// reject a request before reaching the bcrypt comparison — unknown
// username, login disabled — call JunkDelay to burn roughly the same
// time a real comparison would, so response latency does not reveal
// whether the username exists.
package password
