// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cactus/mlog"
)

// MetricsCollector receives a call per served request and the number of
// body bytes written for it.
type MetricsCollector interface {
	AddServed()
	AddBytes(int64)
}

// AccessLog wraps a handler, logging one line per request and feeding
// request counters.
type AccessLog struct {
	Handler   http.Handler
	Collector MetricsCollector
	// Quiet disables the per-request log line. Counters are still fed.
	Quiet bool
}

// ServeHTTP fulfills the http server interface
func (al *AccessLog) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w}

	al.Handler.ServeHTTP(sw, req)

	status := sw.Status()
	requestsTotal.WithLabelValues(strconv.Itoa(status), req.Method).Inc()
	responseBytes.Add(float64(sw.written))
	if al.Collector != nil {
		al.Collector.AddServed()
		al.Collector.AddBytes(sw.written)
	}

	if al.Quiet {
		return
	}
	mlog.Printm("request", accessLogMap(req, status, sw.written, time.Since(start)))
}

func accessLogMap(req *http.Request, status int, written int64, elapsed time.Duration) mlog.Map {
	return mlog.Map{
		"method":      req.Method,
		"path":        req.RequestURI,
		"proto":       req.Proto,
		"status":      status,
		"bytes":       written,
		"remote_addr": req.RemoteAddr,
		"duration":    elapsed.String(),
	}
}

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 && code >= 200 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.written += int64(n)
	return n, err
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// Status returns the response status. A handler that wrote nothing
// implicitly answered 200.
func (sw *statusWriter) Status() int {
	if sw.status == 0 {
		return http.StatusOK
	}
	return sw.status
}
