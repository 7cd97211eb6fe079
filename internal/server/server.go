package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Options configures a [Stub].
type Options struct {
	// Secret signs issued tokens. A random one is generated when empty.
	Secret   string
	TokenTTL time.Duration
	Now      func() time.Time
	Logger   *log.Logger
	// Middleware runs before routing, after request ids are assigned.
	Middleware []Middleware
}

// Stub is the in-memory backend.
type Stub struct {
	store  *store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
	router *chi.Mux
	extra  []Middleware
}

// New creates a [Stub] with its routes registered.
func New(opts Options) *Stub {
	secret := opts.Secret
	if secret == "" {
		secret = shared.GenerateID()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	s := &Stub{
		store:  newStore(),
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
		logger: logger,
		router: chi.NewRouter(),
		extra:  opts.Middleware,
	}
	s.routes()
	return s
}

func (s *Stub) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)
	for _, m := range s.extra {
		s.router.Use(m)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", s.handleListBooks)
				r.Post("/", s.handleCreateBook)
				r.Get("/search", s.handleSearchBooks)
				r.Get("/{id}", s.handleGetBook)
				r.Put("/{id}", s.handleUpdateBook)
				r.Delete("/{id}", s.handleDeleteBook)
				r.Get("/{id}/progress", s.handleGetProgress)
				r.Put("/{id}/progress", s.handleUpdateProgress)
				r.Get("/{id}/reviews", s.handleListReviews)
				r.Post("/{id}/reviews", s.handleCreateReview)
			})

			r.Post("/goals", s.handleSetGoal)
			r.Get("/goals/{year}", s.handleGetGoal)
			r.Get("/goals/{year}/{month}", s.handleGetGoal)
			r.Get("/dashboard", s.handleDashboard)
		})
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
}

// ServeHTTP implements [http.Handler] for the entire stub.
func (s *Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Stub) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", s.now().Sub(start),
		)
	})
}

// ListenAndServe serves the stub on addr until ctx is cancelled.
func (s *Stub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stub backend listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down stub server: %w", err)
		}
		return nil
	}
}
