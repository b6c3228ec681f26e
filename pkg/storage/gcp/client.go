// File: pkg/storage/gcp/client.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ecsdash/internal/config"
	"ecsdash/internal/provider/registry"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const userAgent = "ecsdash"

var ErrMissingProject = errors.New("gcp.project is required")

func init() {
	registry.RegisterProvider(common.GCP, registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "gcp.project",
	})
}

func isConfigured(cfg *config.Config) bool {
	return cfg.GCP != nil && cfg.GCP.Project != ""
}

// Credentials come from Application Default Credentials. With gcp.endpoint set the
// client talks to a GCS-compatible emulator without authentication
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, ErrMissingProject
	}

	var opts []option.ClientOption
	if endpoint := strings.TrimSuffix(cfg.GCP.Endpoint, "/"); endpoint != "" {
		opts = append(opts,
			option.WithEndpoint(endpoint+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
	}
	return NewGCPStorage(ctx, cfg.GCP.Project, logger, opts...)
}

// GCPStorage lists the buckets of one project and reads their attributes
type GCPStorage struct {
	client    *gcpstorage.Client
	projectID string
	logger    *slog.Logger
}

var _ storage.Storage = (*GCPStorage)(nil)

func NewGCPStorage(ctx context.Context, projectID string, logger *slog.Logger, opts ...option.ClientOption) (*GCPStorage, error) {
	if projectID == "" {
		return nil, ErrMissingProject
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts = append([]option.ClientOption{option.WithUserAgent(userAgent)}, opts...)
	client, err := gcpstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client for project %s: %w", projectID, err)
	}

	return &GCPStorage{
		client:    client,
		projectID: projectID,
		logger:    logger.With("project", projectID),
	}, nil
}

func (g *GCPStorage) ProviderName() common.Provider {
	return common.GCP
}

func (g *GCPStorage) Close() error {
	return g.client.Close()
}
