package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/readmeforge/readmeforge/internal/apikey"
	"github.com/readmeforge/readmeforge/internal/auth"
	"github.com/readmeforge/readmeforge/internal/config"
	"github.com/readmeforge/readmeforge/internal/generator"
	"github.com/readmeforge/readmeforge/internal/github"
	"github.com/readmeforge/readmeforge/internal/limiter"
	"github.com/readmeforge/readmeforge/internal/middleware"
	"github.com/readmeforge/readmeforge/internal/store"
)

// adminUserID is the fixed principal all issued keys belong to; there is
// no user/session system behind the admin surface.
const adminUserID = "api-user"

const sessionTTL = time.Hour

type Server struct {
	cfg         *config.Config
	router      chi.Router
	store       store.Store
	keys        *apikey.Manager
	rateLimiter *limiter.Limiter
	sessions    *auth.SessionManager
	analyzer    github.Analyzer
	generator   generator.Generator
}

// New wires the production dependencies: Redis-backed store, GitHub
// analyzer and Gemini generator.
func New(cfg *config.Config) *Server {
	st := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword)

	mem := limiter.NewMemory()
	mem.StartCleanup(10 * time.Minute)

	return NewWithDeps(cfg, st,
		limiter.New(st, mem),
		github.NewClient(cfg.GitHubToken),
		generator.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel),
	)
}

// NewWithDeps is the injection point tests use to swap the store and the
// upstream providers for fakes.
func NewWithDeps(cfg *config.Config, st store.Store, l *limiter.Limiter, analyzer github.Analyzer, gen generator.Generator) *Server {
	s := &Server{
		cfg:         cfg,
		store:       st,
		keys:        apikey.NewManager(st),
		rateLimiter: l,
		sessions:    auth.NewSessionManager(cfg.AdminSecret, sessionTTL),
		analyzer:    analyzer,
		generator:   gen,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recover())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			http.Error(w, "Store Unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Ready"))
	})

	rateLimitMw := middleware.RateLimit(s.rateLimiter)
	adminMw := middleware.AdminAuth(s.cfg.AdminSecret, s.sessions)
	apiKeyMw := middleware.APIKeyAuth(s.keys)

	r.Route("/keys-admin", func(r chi.Router) {
		r.Use(rateLimitMw)

		r.Post("/session", s.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(adminMw)
			r.Post("/", s.IssueKey)
			r.Get("/", s.ListKeys)
			r.Delete("/", s.RevokeKey)
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimitMw)
		r.With(apiKeyMw).Post("/generate", s.Generate)
	})

	s.router = r
}

// Handler exposes the composed router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logrus.WithField("port", s.cfg.ServerPort).Info("server starting")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logrus.WithField("signal", sig.String()).Info("starting shutdown")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
