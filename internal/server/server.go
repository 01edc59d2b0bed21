// Package server implements the rampboard web dashboard.
//
// Each visitor gets a session (cookie "rampboard_session") that owns its own
// upload and selection. Uploads are kept in the cache under a per-session
// key, and tables and charts are cached with a per-session [cache.ScopedKeyer]
// so concurrent users never see each other's data.
//
// # Routes
//
//	GET    /                   dashboard page
//	POST   /upload             multipart upload, field "file"
//	GET    /selection          current selection and the choices available
//	PUT    /selection          change key column, value columns or key value
//	GET    /chart.svg          ranked bar chart of the selected key
//	GET    /ranked.json        plotting-ready series
//	GET    /export.csv         proportions of every group, UTF-8 with BOM
//	GET    /summary.json       per-column diagnostics
//	GET    /landmarks.geojson  built-in landmarks
//	GET    /mbti.json          career picks of every MBTI type
//	GET    /mbti/{type}        careers, books and movies of one type
//	DELETE /session            forget the upload and selection
//	GET    /healthz            liveness
//
// Data errors are answered with a 4xx status and a JSON body
// {"code", "message", "hint"}; the server keeps serving.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rampboard/pkg/buildinfo"
	"github.com/matzehuels/rampboard/pkg/cache"
	"github.com/matzehuels/rampboard/pkg/config"
	"github.com/matzehuels/rampboard/pkg/observability"
	"github.com/matzehuels/rampboard/pkg/pipeline"
	"github.com/matzehuels/rampboard/pkg/session"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	// cookieName carries the session ID.
	cookieName = "rampboard_session"

	// cleanupInterval is how often expired sessions are purged.
	cleanupInterval = time.Minute

	shutdownTimeout = 10 * time.Second
)

// Server is the dashboard HTTP server.
type Server struct {
	cfg       *config.Config
	cache     cache.Cache
	sessions  session.Store
	logger    *log.Logger
	router    *chi.Mux
	templates *template.Template
}

// New creates a server. A nil cache disables caching, which also means
// uploads cannot be kept between requests; callers should pass a real cache.
// A nil store means an in-memory store.
func New(cfg *config.Config, c cache.Cache, store session.Store, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		cache:     c,
		sessions:  store,
		logger:    logger,
		router:    chi.NewRouter(),
		templates: tmpl,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/landmarks.geojson", s.handleLandmarks)
	s.router.Get("/mbti.json", s.handleMBTIList)
	s.router.Get("/mbti/{type}", s.handleMBTI)

	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Post("/upload", s.handleUpload)
		r.Get("/selection", s.handleGetSelection)
		r.Put("/selection", s.handlePutSelection)
		r.Get("/chart.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
		r.Get("/ranked.json", s.handleArtifact(pipeline.FormatJSON, "application/json"))
		r.Get("/export.csv", s.handleArtifact(pipeline.FormatCSV, "text/csv; charset=utf-8"))
		r.Get("/summary.json", s.handleSummary)
		r.Delete("/session", s.handleForget)
	})
}

// requestLogger reports every request to the HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully. Expired sessions are purged in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.CleanupSessions(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			} else if n > 0 {
				s.logger.Debug("purged expired sessions", "count", n)
			}
		}
	}
}

// CleanupSessions removes expired sessions and their uploads and returns
// how many were removed.
func (s *Server) CleanupSessions(ctx context.Context) (int, error) {
	ids, err := s.sessions.Cleanup(ctx)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.cache.Delete(ctx, uploadKey(id)); err != nil {
			s.logger.Warn("delete upload", "session", id, "err", err)
		}
	}
	return len(ids), nil
}
