// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"
	"runtime"

	"github.com/bureau-foundation/warden/lib/api"
	"github.com/bureau-foundation/warden/lib/version"
)

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, map[string]any{
		"name":       "wardend",
		"version":    version.Short(),
		"commit":     version.GitCommit,
		"build_time": version.BuildTime,
		"go":         runtime.Version(),
	})
}

// handleStats reports allocator and scheduler numbers for casual
// operational inspection; anything deeper belongs in a profiler.
func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	api.WriteData(w, map[string]any{
		"goroutines":     runtime.NumGoroutine(),
		"heap_alloc":     mem.HeapAlloc,
		"heap_sys":       mem.HeapSys,
		"heap_objects":   mem.HeapObjects,
		"stack_sys":      mem.StackSys,
		"total_alloc":    mem.TotalAlloc,
		"num_gc":         mem.NumGC,
		"gc_pause_total": mem.PauseTotalNs,
	})
}

// handleRequestHeaders echoes the request headers back; a debugging
// aid for inspecting what proxies in front of the service add or
// strip.
func (s *server) handleRequestHeaders(w http.ResponseWriter, r *http.Request) {
	api.WriteData(w, r.Header)
}
