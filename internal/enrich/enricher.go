// File: internal/enrich/enricher.go

// Package enrich merges a bucket listing with the per-bucket region and
// versioning facets. Every facet is fetched concurrently and a failed lookup
// is replaced by a placeholder instead of failing the batch.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecsdash/internal/metrics"
	"ecsdash/pkg/storage"

	"golang.org/x/sync/errgroup"
)

// Number of buckets enriched when the caller does not ask for a specific cap.
// Each bucket costs two additional API round trips
const DefaultCap = 10

var (
	ErrInvalidCap  = errors.New("bucket cap must not be negative")
	ErrNoResolvers = errors.New("enricher requires both a region and a versioning resolver")
)

const (
	facetRegion     = "region"
	facetVersioning = "versioning"

	classAccessDenied = "access_denied"
	classTransient    = "transient"
)

type Enricher struct {
	regions    storage.RegionResolver
	versioning storage.VersioningResolver
	now        func() time.Time
	logger     *slog.Logger
}

type Option func(*Enricher)

// Overrides the clock used for the age computation
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		e.now = now
	}
}

func NewEnricher(regions storage.RegionResolver, versioning storage.VersioningResolver, logger *slog.Logger, opts ...Option) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Enricher{
		regions:    regions,
		versioning: versioning,
		now:        time.Now,
		logger:     logger.With("component", "Enricher"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns one detail per summary, in input order, for at most limit summaries.
// Lookup failures never fail the call; only a negative limit or a missing resolver does
func (e *Enricher) Enrich(ctx context.Context, summaries []storage.BucketSummary, limit int) ([]storage.BucketDetail, error) {
	if e.regions == nil || e.versioning == nil {
		return nil, ErrNoResolvers
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCap, limit)
	}

	if len(summaries) > limit {
		summaries = summaries[:limit]
	}

	details := make([]storage.BucketDetail, len(summaries))
	if len(summaries) == 0 {
		return details, nil
	}

	now := e.now()
	e.logger.Debug("Enriching buckets", "count", len(summaries))

	// Each goroutine writes a distinct field of its own slot, so no locking is needed
	var g errgroup.Group
	for i, bucket := range summaries {
		details[i] = storage.BucketDetail{
			Name:      bucket.Name,
			CreatedAt: bucket.CreatedAt,
			AgeInDays: storage.AgeInDays(bucket.CreatedAt, now),
		}

		g.Go(func() error {
			details[i].Region = e.resolveRegion(ctx, bucket.Name)
			return nil
		})
		g.Go(func() error {
			details[i].Versioning = e.resolveVersioning(ctx, bucket.Name)
			return nil
		})
	}

	// Lookups never report errors to the group; Wait only joins them
	_ = g.Wait()

	return details, nil
}

func (e *Enricher) resolveRegion(ctx context.Context, bucketName string) string {
	region, err := e.regions.BucketRegion(ctx, bucketName)
	if err != nil {
		e.recordFailure(ctx, facetRegion, bucketName, err)
		return storage.RegionUnavailable
	}
	metrics.BucketLookupsTotal.WithLabelValues(facetRegion, "ok").Inc()
	return region
}

func (e *Enricher) resolveVersioning(ctx context.Context, bucketName string) storage.VersioningState {
	state, err := e.versioning.BucketVersioning(ctx, bucketName)
	if err != nil {
		e.recordFailure(ctx, facetVersioning, bucketName, err)
		return storage.VersioningUnknown
	}
	metrics.BucketLookupsTotal.WithLabelValues(facetVersioning, "ok").Inc()
	return state
}

func (e *Enricher) recordFailure(ctx context.Context, facet, bucketName string, err error) {
	class := classify(err)
	metrics.BucketLookupsTotal.WithLabelValues(facet, class).Inc()

	e.logger.WarnContext(ctx, "Bucket metadata lookup failed, using placeholder", "bucket", bucketName, "facet", facet, "class", class, "error", err)
}

func classify(err error) string {
	if errors.Is(err, storage.ErrAccessDenied) {
		return classAccessDenied
	}
	return classTransient
}
