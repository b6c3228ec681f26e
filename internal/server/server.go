// File: internal/server/server.go

// Package server exposes the dashboard page and its JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"ecsdash/internal/config"
	"ecsdash/internal/metrics"
	"ecsdash/internal/procstate"
	"ecsdash/internal/service"
	"ecsdash/internal/sysinfo"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

// BucketReporter produces the enriched listing shown on the buckets card
type BucketReporter interface {
	ListBuckets(ctx context.Context, providerName string, limit int) (service.BucketReport, error)
}

type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	buckets    BucketReporter
	tracker    *procstate.Tracker
	sysinfo    *sysinfo.Collector
	dashboard  *template.Template
	logger     *slog.Logger
	now        func() time.Time
}

func NewServer(cfg *config.Config, buckets BucketReporter, tracker *procstate.Tracker, collector *sysinfo.Collector, logger *slog.Logger) (*Server, error) {
	dashboard, err := template.ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing dashboard template: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		buckets:   buckets,
		tracker:   tracker,
		sysinfo:   collector,
		dashboard: dashboard,
		logger:    logger.With("component", "Server"),
		now:       time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

// Handler returns the routed handler with all middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDashboard)

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/api/aws-info", s.handleAWSInfo)
	mux.HandleFunc("/aws-info", s.handleAWSInfo)

	mux.HandleFunc("/api/s3-buckets", s.handleBuckets)
	mux.HandleFunc("/s3-buckets", s.handleBuckets)

	mux.HandleFunc("/api/stats", s.handleStats)

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	handler = s.methodMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.countingMiddleware(handler)
	return handler
}

// Serves until Shutdown is called. A closed server is not reported as an error
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting HTTP server", "address", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
