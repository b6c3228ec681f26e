// File: internal/service/bucket_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ecsdash/internal/enrich"
	"ecsdash/internal/metrics"
	"ecsdash/pkg/storage"

	"golang.org/x/sync/errgroup"
)

// StorageProvider hands out initialized storage clients by provider name
type StorageProvider interface {
	GetStorageProvider(ctx context.Context, providerName string) (storage.Storage, error)
}

// Result of a list-and-enrich operation for one or more providers
type BucketReport struct {
	Buckets        []storage.BucketDetail
	TotalCount     int
	DisplayedCount int
}

// BucketService keeps one storage client per provider for its whole lifetime.
// Clients are created on first use (or by Warm) and released by Close
type BucketService struct {
	providers StorageProvider
	logger    *slog.Logger
	clock     func() time.Time

	mu      sync.Mutex
	clients map[string]storage.Storage
}

func NewBucketService(providers StorageProvider, logger *slog.Logger) *BucketService {
	return &BucketService{
		providers: providers,
		logger:    logger.With("service", "BucketService"),
		clock:     time.Now,
		clients:   make(map[string]storage.Storage),
	}
}

// Returns the cached client for the provider, creating it on first use.
// Failed initializations are not cached, the next call tries again
func (s *BucketService) client(ctx context.Context, providerName string) (storage.Storage, error) {
	key := strings.ToLower(strings.TrimSpace(providerName))

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[key]; ok {
		return c, nil
	}

	c, err := s.providers.GetStorageProvider(ctx, key)
	if err != nil {
		return nil, err
	}
	s.clients[key] = c
	s.logger.Debug("Storage client created", "provider", key)
	return c, nil
}

// Creates the clients up front so that configuration and credential problems surface at startup
func (s *BucketService) Warm(ctx context.Context, providerNames ...string) error {
	var errs []error
	for _, name := range providerNames {
		if _, err := s.client(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Releases every client created so far
func (s *BucketService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, c := range s.clients {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s client: %w", name, err))
		}
		delete(s.clients, name)
	}
	return errors.Join(errs...)
}

// Lists the buckets of a single provider and enriches the first limit of them.
// Only a failure of the listing itself is returned; facet failures become placeholders
func (s *BucketService) ListBuckets(ctx context.Context, providerName string, limit int) (BucketReport, error) {
	s.logger.Debug("Starting ListBuckets operation", "provider", providerName, "cap", limit)
	start := time.Now()
	defer func() {
		metrics.BucketListDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	}()

	client, err := s.client(ctx, providerName)
	if err != nil {
		s.logger.Error("Failed to initialize provider", "provider", providerName, "error", err)
		return BucketReport{}, fmt.Errorf("error initializing provider: %w", err)
	}

	summaries, err := client.ListBuckets(ctx)
	if err != nil {
		s.logger.Error("Failed to list buckets", "provider", providerName, "error", err)
		return BucketReport{}, err
	}

	enricher := enrich.NewEnricher(client, client, s.logger, enrich.WithClock(s.clock))
	details, err := enricher.Enrich(ctx, summaries, limit)
	if err != nil {
		return BucketReport{}, err
	}

	for i := range details {
		details[i].Provider = client.ProviderName()
	}

	s.logger.Debug("Successfully enriched buckets", "provider", providerName, "total", len(summaries), "displayed", len(details))
	return BucketReport{
		Buckets:        details,
		TotalCount:     len(summaries),
		DisplayedCount: len(details),
	}, nil
}

// Queries several providers concurrently. Providers that fail are logged and skipped,
// the per-provider reports are concatenated in the order the providers were given
func (s *BucketService) ListAllBuckets(ctx context.Context, providerNames []string, limit int) (BucketReport, error) {
	if len(providerNames) == 0 {
		return BucketReport{}, nil
	}

	s.logger.Debug("Starting ListAllBuckets operation", "providers", providerNames)

	reports := make([]BucketReport, len(providerNames))
	var mu sync.Mutex
	var failed []string

	var g errgroup.Group
	for i, pName := range providerNames {
		g.Go(func() error {
			report, err := s.ListBuckets(ctx, pName, limit)
			if err != nil {
				mu.Lock()
				failed = append(failed, pName)
				mu.Unlock()
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == len(providerNames) {
		return BucketReport{}, fmt.Errorf("all providers failed: %v", failed)
	}

	var merged BucketReport
	for _, r := range reports {
		merged.Buckets = append(merged.Buckets, r.Buckets...)
		merged.TotalCount += r.TotalCount
		merged.DisplayedCount += r.DisplayedCount
	}

	// The operation itself succeeded, even if some providers failed
	return merged, nil
}
