// Package server serves a built site for local preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ThemeFunc reports the current theme for GET /theme.
type ThemeFunc func() string

// Server routes preview requests. It doubles as the theme toggle control:
// POST /theme/toggle runs whatever was registered through OnActivate.
type Server struct {
	router    chi.Router
	outputDir string
	logger    zerolog.Logger

	mu       sync.RWMutex
	onToggle func(ctx context.Context) error
	current  ThemeFunc
}

// New returns a Server for outputDir. gatherer may be nil to disable /metrics.
func New(outputDir string, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{outputDir: outputDir, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/theme", s.handleTheme)
	r.Post("/theme/toggle", s.handleToggle)
	r.Handle("/*", s.staticHandler())

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// OnActivate registers the toggle action.
func (s *Server) OnActivate(fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onToggle = fn
}

// SetThemeSource sets what GET /theme reports.
func (s *Server) SetThemeSource(fn ThemeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}

// staticHandler serves outputDir without directory listings or caching.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			index := filepath.Join(s.outputDir, filepath.FromSlash(r.URL.Path), "index.html")
			if _, err := os.Stat(index); errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

type themeResponse struct {
	Theme string `json:"theme"`
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()

	if current == nil {
		http.Error(w, "theme not configured", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: current()})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	toggle, current := s.onToggle, s.current
	s.mu.RUnlock()

	if toggle == nil {
		http.Error(w, "theme toggle not configured", http.StatusNotFound)
		return
	}
	if err := toggle(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("Theme toggle failed")
		http.Error(w, "failed to toggle theme", http.StatusInternalServerError)
		return
	}

	resp := themeResponse{}
	if current != nil {
		resp.Theme = current()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
