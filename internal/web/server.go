package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aatumaykin/reportbot/internal/config"
	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/report"
	"github.com/aatumaykin/reportbot/internal/store"
)

// ReportService triggers a report run for the given date ("" means the
// configured default).
type ReportService interface {
	GenerateAndSend(ctx context.Context, date string) (report.Result, error)
}

// Server is the operator UI: schedule management and manual report sends.
type Server struct {
	cfg      config.WebConfig
	logger   *logger.Logger
	repo     store.ScheduleRepository
	reports  ReportService
	gatherer prometheus.Gatherer

	httpServer *http.Server
}

// NewServer wires the router. gatherer may be nil when metrics are disabled.
func NewServer(cfg config.WebConfig, log *logger.Logger, repo store.ScheduleRepository, reports ReportService, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   log,
		repo:     repo,
		reports:  reports,
		gatherer: gatherer,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Router builds the chi router. Exposed separately so tests can drive it
// without binding a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	if s.cfg.EnableMetrics && s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/", s.handleIndex)
		r.Get("/schedulers", s.handleSchedulersPage)
		r.Post("/schedulers", s.handleCreateScheduler)
		r.Post("/schedulers/{id}/toggle", s.handleToggleScheduler)
		r.Post("/schedulers/{id}/delete", s.handleDeleteScheduler)
		r.Get("/clickup/send-report", s.handleSendReport)

		r.Route("/api", s.apiRoutes)
	})

	return r
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("web server listening", logger.Field{Key: "addr", Value: s.cfg.ListenAddr})
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
