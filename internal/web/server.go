// Package web is the HTTP view layer over a core.Store.
//
// It serves a server-rendered table at / and a JSON API under /api that
// accepts serialized intents, CSV uploads and export downloads. Every state
// change goes through Store.Dispatch; handlers never edit TableState.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/csvcodec"
	"github.com/JonMunkholm/datatable/internal/web/middleware"
)

// Server is the HTTP server for the table.
type Server struct {
	store      *core.Store
	cfg        *config.Config
	importOpts csvcodec.Options
	limiter    *ImportLimiter
	router     *chi.Mux
	now        func() time.Time

	mu       sync.Mutex
	server   *http.Server
	shutdown bool
}

// NewServer wires routes and middleware around store.
func NewServer(store *core.Store, cfg *config.Config, importOpts csvcodec.Options) *Server {
	s := &Server{
		store:      store,
		cfg:        cfg,
		importOpts: importOpts,
		limiter:    NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		router:     chi.NewRouter(),
		now:        time.Now,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(middleware.NewRateLimiter(s.cfg.Rate.RequestsPerSecond, s.cfg.Rate.Burst).Handler)
	}
}

func (s *Server) setupRoutes() {
	auth := middleware.APIKeyAuth(s.cfg.Security)

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/import", s.handleImport)
		r.Post("/sample", s.handleSample)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/view", s.handleView)
		r.Get("/export", s.handleExport)
		r.Get("/history", s.handleHistory)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/intents", s.handleIntent)
			r.Post("/import", s.handleImport)
			r.Post("/sample", s.handleSample)
		})
	})
}

// Start listens on addr until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	s.server = srv
	s.mu.Unlock()

	slog.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server. A server shut down before Start
// never listens.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Server) WaitForImports(ctx context.Context) error {
	if s.limiter.Status().Active == 0 {
		return nil
	}
	slog.Info("waiting for imports to complete", "active", s.limiter.Status().Active)
	return s.limiter.Wait(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

const contentSecurityPolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
