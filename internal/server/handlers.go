// File: internal/server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"

	"ecsdash/internal/procstate"
	"ecsdash/pkg/storage"
)

type dashboardData struct {
	Title         string
	Developer     string
	Service       string
	Provider      string
	RefreshMillis int64
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.respondError(w, http.StatusNotFound, "Not found")
		return
	}

	data := dashboardData{
		Title:         "ECS Dashboard",
		Developer:     s.cfg.App.Developer,
		Service:       s.serviceName(),
		Provider:      s.cfg.Buckets.Provider,
		RefreshMillis: s.cfg.Server.RefreshInterval.Milliseconds(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.dashboard.Execute(w, data); err != nil {
		s.logger.Error("Error rendering dashboard", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := s.tracker.Uptime()

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: s.now().UTC(),
		Uptime: Uptime{
			Raw:       uptime.Seconds(),
			Formatted: procstate.FormatUptime(uptime),
		},
		System:    s.sysinfo.Host(),
		Process:   s.sysinfo.Process(),
		Developer: s.cfg.App.Developer,
	})
}

func (s *Server) handleAWSInfo(w http.ResponseWriter, r *http.Request) {
	region := storage.DefaultRegion
	if s.cfg.AWS != nil && s.cfg.AWS.Region != "" {
		region = s.cfg.AWS.Region
	}

	envRegion := os.Getenv("AWS_REGION")
	if envRegion == "" {
		envRegion = region
	}

	s.respondJSON(w, http.StatusOK, AWSInfoResponse{
		Region:  region,
		Service: s.serviceName(),
		Container: ContainerInfo{
			Hostname:  s.cfg.App.Hostname,
			Platform:  runtime.GOOS,
			GoVersion: runtime.Version(),
		},
		Environment: EnvironmentInfo{
			AWSRegion: envRegion,
			Env:       s.cfg.App.Environment,
		},
		Developer: s.cfg.App.Developer,
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) handleBuckets(w http.ResponseWriter, r *http.Request) {
	provider := s.cfg.Buckets.Provider

	report, err := s.buckets.ListBuckets(r.Context(), provider, s.cfg.Buckets.Cap)
	if err != nil {
		s.logger.Error("Bucket listing failed", "provider", provider, "error", err)
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Success:   false,
			Error:     err.Error(),
			Note:      bucketPermissionsNote,
			Developer: s.cfg.App.Developer,
			Timestamp: s.now().UTC(),
		})
		return
	}

	buckets := report.Buckets
	if buckets == nil {
		buckets = []storage.BucketDetail{}
	}

	s.respondJSON(w, http.StatusOK, BucketsResponse{
		Success:        true,
		Provider:       provider,
		Buckets:        buckets,
		TotalCount:     report.TotalCount,
		DisplayedCount: report.DisplayedCount,
		Developer:      s.cfg.App.Developer,
		Timestamp:      s.now().UTC(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()

	s.respondJSON(w, http.StatusOK, StatsResponse{
		Requests:  snap.Requests,
		StartedAt: snap.StartedAt.UTC(),
		Uptime: Uptime{
			Raw:       snap.Uptime.Seconds(),
			Formatted: procstate.FormatUptime(snap.Uptime),
		},
		Timestamp: s.now().UTC(),
	})
}

func (s *Server) serviceName() string {
	if s.cfg.AWS != nil && s.cfg.AWS.Service != "" {
		return s.cfg.AWS.Service
	}
	return "ECS Fargate"
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Error encoding JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Success:   false,
		Error:     message,
		Developer: s.cfg.App.Developer,
		Timestamp: s.now().UTC(),
	})
}
