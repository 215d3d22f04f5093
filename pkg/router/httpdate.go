// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// httpDate caches the formatted value for the Date response header, so
// it is formatted once a second instead of once per request.
type httpDate struct {
	value   atomic.Pointer[string]
	updater sync.Once
}

func (h *httpDate) String() string {
	if stamp := h.value.Load(); stamp != nil {
		return *stamp
	}
	return h.Update()
}

// Update formats the current time and stores it, returning the new value.
func (h *httpDate) Update() string {
	stamp := time.Now().UTC().Format(http1TimeFormat)
	h.value.Store(&stamp)
	return stamp
}

// startUpdater spawns the single goroutine that refreshes the cached value.
func (h *httpDate) startUpdater(interval time.Duration) {
	h.updater.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			for range ticker.C {
				h.Update()
			}
		}()
	})
}

func newHTTPDate() *httpDate {
	d := &httpDate{}
	d.Update()
	d.startUpdater(time.Second)
	return d
}

const http1TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

var formattedDate = newHTTPDate()
