// Package web provides the local single-page web UI: upload a spreadsheet,
// pick columns, process, download the result workbooks.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/parser"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

//go:embed templates
var templateFiles embed.FS

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "fasttab_session"

// Defaults applied to zero Options fields.
const (
	DefaultMaxUploadBytes = 50 << 20
	DefaultSessionTTL     = time.Hour
)

// Options configures a Server.
type Options struct {
	// MaxUploadBytes bounds an uploaded spreadsheet.
	MaxUploadBytes int64
	// SessionTTL expires idle sessions.
	SessionTTL time.Duration
	// Load configures table loading.
	Load parser.Options
	// Process configures tabulation. Its Logger is replaced by the
	// request logger.
	Process fasttab.Options
	// Logger receives request and processing logs.
	Logger zerolog.Logger
}

// Server is the HTTP server for the web UI.
type Server struct {
	opts     Options
	logger   zerolog.Logger
	sessions *SessionStore
	tmpl     *template.Template
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(opts Options) (*Server, error) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"contains": slices.Contains[[]string, string],
	}).ParseFS(templateFiles, "templates/index.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: NewSessionStore(opts.SessionTTL),
		tmpl:     tmpl,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/process", s.handleProcess)
	s.router.Get("/download/{kind}", s.handleDownload)
	s.router.Get("/healthz", s.handleHealth)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting server")
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("shutting down server")
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
