// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package stats provides lock-free request and byte counters for the
// file server, along with a status page handler.
package stats

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// ServeStats is the counter container
type ServeStats struct {
	requests atomic.Uint64
	bytes    atomic.Uint64
}

// AddServed increments the number of requests served counter
func (ss *ServeStats) AddServed() {
	ss.requests.Add(1)
}

// AddBytes increments the number of bytes served counter
func (ss *ServeStats) AddBytes(bc int64) {
	if bc <= 0 {
		return
	}
	ss.bytes.Add(uint64(bc))
}

// GetStats returns the stats: requests, bytes
func (ss *ServeStats) GetStats() (uint64, uint64) {
	return ss.requests.Load(), ss.bytes.Load()
}

// Handler returns an http.HandlerFunc that returns running totals of
// requests and bytes served.
func Handler(ss *ServeStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, b := ss.GetStats()
		if r.URL.Query().Get("format") == "json" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			fmt.Fprintf(w, "{\"RequestsServed\": %d, \"BytesServed\": %d}\n", c, b)
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintf(w, "RequestsServed, BytesServed\n%d, %d\n", c, b)
		}
	}
}
