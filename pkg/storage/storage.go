// File: pkg/storage/storage.go
package storage

import (
	"context"
	"errors"

	"ecsdash/pkg/common"
)

// Returns the buckets visible to the current credentials
type BucketLister interface {
	ListBuckets(ctx context.Context) ([]BucketSummary, error)
}

// Resolves the region (location) a bucket lives in
type RegionResolver interface {
	BucketRegion(ctx context.Context, bucketName string) (string, error)
}

// Resolves the versioning state of a bucket
type VersioningResolver interface {
	BucketVersioning(ctx context.Context, bucketName string) (VersioningState, error)
}

// Storage is implemented by every registered provider
type Storage interface {
	BucketLister
	RegionResolver
	VersioningResolver

	ProviderName() common.Provider
	Close() error
}

// Providers wrap permission failures with ErrAccessDenied so callers can tell them apart from transient errors
var ErrAccessDenied = errors.New("access denied")
