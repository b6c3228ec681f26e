// File: pkg/storage/gcp/buckets.go
package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ecsdash/pkg/storage"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

func (g *GCPStorage) ListBuckets(ctx context.Context) ([]storage.BucketSummary, error) {
	g.logger.Debug("Starting GCP ListBuckets operation")
	var buckets []storage.BucketSummary

	it := g.client.Buckets(ctx, g.projectID)
	for {
		bucketAttrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapError("error listing buckets", err)
		}

		buckets = append(buckets, storage.BucketSummary{
			Name:      bucketAttrs.Name,
			CreatedAt: bucketAttrs.Created,
		})
	}

	return buckets, nil
}

// GCS reports locations in upper case (e.g., "US-EAST1"); they are normalised to the lower-case region form
func (g *GCPStorage) BucketRegion(ctx context.Context, bucketName string) (string, error) {
	attrs, err := g.bucketAttrs(ctx, bucketName)
	if err != nil {
		return "", err
	}
	return strings.ToLower(attrs.Location), nil
}

// GCS only exposes an on/off flag, so a bucket with versioning paused reports Disabled
func (g *GCPStorage) BucketVersioning(ctx context.Context, bucketName string) (storage.VersioningState, error) {
	attrs, err := g.bucketAttrs(ctx, bucketName)
	if err != nil {
		return "", err
	}
	if attrs.VersioningEnabled {
		return storage.VersioningEnabled, nil
	}
	return storage.VersioningDisabled, nil
}

func (g *GCPStorage) bucketAttrs(ctx context.Context, bucketName string) (*gcpstorage.BucketAttrs, error) {
	attrs, err := g.client.Bucket(bucketName).Attrs(ctx)
	if err != nil {
		return nil, wrapError(fmt.Sprintf("error getting attributes of bucket %s", bucketName), err)
	}
	return attrs, nil
}

func wrapError(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusForbidden || apiErr.Code == http.StatusUnauthorized) {
		return fmt.Errorf("%s: %w: %w", msg, storage.ErrAccessDenied, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
