// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cactus/mlog"
	"golang.org/x/net/netutil"
)

// DefaultAddr is the listen address used when ServerConfig.Addr is empty.
const DefaultAddr = ":8080"

// ServerConfig holds listener and lifecycle settings for a Server.
type ServerConfig struct {
	// Addr is the Address:Port to bind to. Defaults to DefaultAddr.
	Addr string
	// MaxConns caps concurrently open connections. 0 means no cap.
	MaxConns int
	// ReadHeaderTimeout bounds the time to read request headers.
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown once the serve context
	// is done.
	ShutdownTimeout time.Duration
}

// BindError is returned when the listening socket can not be created.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("could not bind to %s: %s", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// A Server accepts connections and dispatches them to a handler until
// its context is done.
type Server struct {
	config  ServerConfig
	handler http.Handler
}

// NewServer returns a new Server for handler.
func NewServer(sc ServerConfig, handler http.Handler) *Server {
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.ReadHeaderTimeout == 0 {
		sc.ReadHeaderTimeout = 30 * time.Second
	}
	if sc.ShutdownTimeout == 0 {
		sc.ShutdownTimeout = 5 * time.Second
	}
	return &Server{config: sc, handler: handler}
}

// Listen binds the configured address. Failures are returned as *BindError.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return nil, &BindError{Addr: s.config.Addr, Err: err}
	}
	if s.config.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.config.MaxConns)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. A clean shutdown returns nil. Serve always closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		// accept loop died on its own
		return err
	case <-ctx.Done():
	}

	if mlog.HasDebug() {
		mlog.Debug("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// ListenURL returns a browsable url for a listener bound by Listen.
func ListenURL(ln net.Listener) string {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", addr.Port)
	}
	return "http://" + ln.Addr().String()
}
