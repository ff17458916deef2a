// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package httpserver runs an HTTP listener with lifecycle management:
// bind, signal readiness, serve until the context is cancelled, then
// drain in-flight requests within a shutdown timeout.
//
// Responses are transparently gzip-compressed for clients that accept
// it (klauspost/compress gzhttp). The caller provides the handler;
// routing and request handling live with the service.
package httpserver
