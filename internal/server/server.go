// Package server exposes the stack store over HTTP.
//
// Every /api route except login sits behind the password gate. Clients are
// identified by a device cookie holding a random UUID; the gate remembers which
// devices have entered the shared password.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bookstack/pkg/gate"
	"github.com/matzehuels/bookstack/pkg/stack/store"
)

const (
	// DeviceCookie names the cookie that carries the device id.
	DeviceCookie = "bookstack-device"

	defaultShutdownTimeout = 10 * time.Second
	maxBodyBytes           = 1 << 16
)

// Options configures a [Server].
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
	CookieSecure    bool
}

// Server serves the stack API.
type Server struct {
	store  *store.Store
	gate   *gate.Gate
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New wires the routes. A nil gate disables authentication.
func New(st *store.Store, g *gate.Gate, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{store: st, gate: g, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
