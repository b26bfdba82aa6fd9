// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bryan-buckman/linkpage/internal/auth"
	"github.com/bryan-buckman/linkpage/internal/content"
	"github.com/bryan-buckman/linkpage/internal/database"
	"github.com/bryan-buckman/linkpage/internal/site"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the main HTTP server.
type Server struct {
	db        database.Store
	tokens    *auth.Tokens
	creds     *auth.Credentials
	content   *content.Manager
	site      *site.Manager
	images    *site.Images
	router    chi.Router
	templates *template.Template
	logger    *slog.Logger
}

// Options configures New.
type Options struct {
	Tokens         *auth.Tokens
	Credentials    *auth.Credentials
	SiteDefaults   site.Defaults
	MaxUploadBytes int
	Logger         *slog.Logger
}

// New creates a new server over the document store.
func New(db database.Store, opts Options) (*Server, error) {
	if opts.Tokens == nil {
		return nil, errors.New("server: token service is required")
	}
	if opts.Credentials == nil {
		opts.Credentials = auth.NewCredentials(nil, nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	siteManager := site.NewManager(db, opts.Tokens, opts.SiteDefaults, logger)
	s := &Server{
		db:        db,
		tokens:    opts.Tokens,
		creds:     opts.Credentials,
		content:   content.NewManager(db, opts.Tokens, logger),
		site:      siteManager,
		images:    site.NewImages(siteManager, opts.MaxUploadBytes),
		templates: tmpl,
		logger:    logger.With("component", "server"),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Pages.
	r.Get("/", s.handleHome)
	r.Get("/background-image/{position}", s.handleBackgroundImage)
	r.Get("/healthz", s.handleHealth)

	// API.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors)

		r.Post("/login", s.handleLogin)
		r.Post("/guest-login", s.handleGuestLogin)

		r.Get("/config", s.handleGetConfig)
		r.Post("/config", s.handleUpdateConfig)

		r.Get("/categories", s.handleGetCategories)
		r.Post("/categories", s.handleReplaceCategories)

		r.Post("/background", s.handleUploadBackground)
		r.Delete("/background", s.handleDeleteBackground)
		r.Delete("/background/{position}", s.handleDeleteBackground)

		r.Get("/export-opml", s.handleExportOPML)
		r.Post("/import-opml", s.handleImportOPML)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not Found"})
		})
	})

	s.router = r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "database", s.db.DatabaseType())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// cors allows the page to be served from another origin than the API and
// answers preflight requests itself.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
