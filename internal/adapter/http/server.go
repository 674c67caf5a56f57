package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/vaccination-dashboard/internal/dashboard"
	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the page backend the server renders.
type Dashboard interface {
	States() []domain.State
	View(ctx context.Context, name string) (dashboard.View, error)
	Plot(ctx context.Context, id string, kind domain.ArtifactKind) (domain.Image, error)
	CheckReadiness(ctx context.Context) error
}

// Options configures the server.
type Options struct {
	Addr            string
	PlotlyJSURL     string
	BackgroundImage string // optional path to a full-page background image
}

// Server exposes the dashboard page, component plot images, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	page       *page
	logger     *slog.Logger
}

// NewServer creates the HTTP server and prepares the page template.
func NewServer(opts Options, dash Dashboard, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	p, err := newPage(opts.PlotlyJSURL, loadBackground(opts.BackgroundImage, logger))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      requestLogger(mux, logger, metrics),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		page:   p,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /plots/{id}/{kind}", s.handlePlot)
	mux.HandleFunc("GET /api/states", s.handleStates)
	mux.HandleFunc("GET /static/style.css", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "static/style.css")
	})
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("state")

	view, err := s.dash.View(r.Context(), selected)
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownState) {
			status = http.StatusNotFound
		}
		s.logger.Info("page selection rejected", "state", selected, "error", err)
	}

	if err := s.page.render(w, status, s.page.data(s.dash.States(), view, err)); err != nil {
		s.logger.Error("render page", "state", selected, "error", err)
	}
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParsePlotKind(r.PathValue("kind"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	img, err := s.dash.Plot(r.Context(), r.PathValue("id"), kind)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnknownState), errors.Is(err, domain.ErrArtifactNotFound):
		http.NotFound(w, r)
		return
	default:
		http.Error(w, "plot could not be loaded", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data) //nolint:errcheck // client went away
}

func (s *Server) handleStates(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dash.States())
}

func loadBackground(path string, logger *slog.Logger) []byte {
	if path == "" {
		return nil
	}
	img, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("background image unavailable", "path", path, "error", err)
		return nil
	}
	if ct := http.DetectContentType(img); !strings.HasPrefix(ct, "image/") {
		logger.Warn("background image ignored", "path", path, "content_type", ct)
		return nil
	}
	return img
}
