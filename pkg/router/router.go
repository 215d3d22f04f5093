// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package router provides the fixed request router for the file server.
package router

import (
	"net/http"
)

// Reserved paths for the optional service endpoints. They only shadow
// files when the matching endpoint is enabled.
const (
	HealthCheckPath = "/_health"
	StatusPath      = "/_status"
	MetricsPath     = "/_metrics"
)

// DefaultHeaders are returned on every response unless overridden.
var DefaultHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
}

// DumbRouter is a basic, special purpose, http router
type DumbRouter struct {
	ServerName  string
	FileHandler http.Handler
	AddHeaders  map[string]string
	// HealthCheck enables the HealthCheckPath endpoint.
	HealthCheck    bool
	StatsHandler   http.Handler
	MetricsHandler http.Handler
}

// SetHeaders sets the headers on the response
func (dr *DumbRouter) SetHeaders(w http.ResponseWriter) {
	h := w.Header()
	for k, v := range dr.AddHeaders {
		h.Set(k, v)
	}
	h.Set("Date", formattedDate.String())
	if dr.ServerName != "" {
		h.Set("Server", dr.ServerName)
	}
}

// HealthCheckHandler is HTTP handler for confirming the server is up.
func (dr *DumbRouter) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ServeHTTP fulfills the http server interface
func (dr *DumbRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// headers go on before anything can write a response, errors included
	dr.SetHeaders(w)

	if r.Method != http.MethodHead && r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case dr.HealthCheck && r.URL.Path == HealthCheckPath:
		dr.HealthCheckHandler(w, r)
		return
	case dr.StatsHandler != nil && r.URL.Path == StatusPath:
		dr.StatsHandler.ServeHTTP(w, r)
		return
	case dr.MetricsHandler != nil && r.URL.Path == MetricsPath:
		dr.MetricsHandler.ServeHTTP(w, r)
		return
	}

	if dr.FileHandler == nil {
		http.Error(w, "404 Not Found", http.StatusNotFound)
		return
	}
	dr.FileHandler.ServeHTTP(w, r)
}
