// File: pkg/storage/aws/buckets.go
package aws

import (
	"context"

	"ecsdash/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func (s *AWSStorage) ListBuckets(ctx context.Context) ([]storage.BucketSummary, error) {
	s.logger.Debug("Starting AWS ListBuckets operation")

	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, wrapError("ListBuckets", "", err)
	}

	buckets := make([]storage.BucketSummary, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, storage.BucketSummary{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		})
	}

	s.logger.Debug("Listed AWS buckets", "count", len(buckets))
	return buckets, nil
}

func (s *AWSStorage) BucketRegion(ctx context.Context, bucketName string) (string, error) {
	out, err := s.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", wrapError("GetBucketLocation", bucketName, err)
	}
	return normalizeLocation(out.LocationConstraint), nil
}

// The client is bound to one region, so a bucket elsewhere answers with a redirect
// naming its home region. The call is repeated once against that region
func (s *AWSStorage) BucketVersioning(ctx context.Context, bucketName string) (storage.VersioningState, error) {
	input := &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucketName),
	}

	out, err := s.client.GetBucketVersioning(ctx, input)
	if region, ok := redirectRegion(err); ok && region != s.region {
		s.logger.Debug("Bucket lives in another region, retrying there", "bucket", bucketName, "region", region)
		out, err = s.client.GetBucketVersioning(ctx, input, func(o *s3.Options) {
			o.Region = region
		})
	}
	if err != nil {
		return "", wrapError("GetBucketVersioning", bucketName, err)
	}
	return mapVersioningStatus(out.Status), nil
}

// GetBucketLocation reports us-east-1 as an empty constraint and eu-west-1 as the legacy "EU"
func normalizeLocation(constraint types.BucketLocationConstraint) string {
	switch constraint {
	case "":
		return storage.DefaultRegion
	case types.BucketLocationConstraintEu:
		return "eu-west-1"
	default:
		return string(constraint)
	}
}

// A bucket that never had versioning turned on has no status at all
func mapVersioningStatus(status types.BucketVersioningStatus) storage.VersioningState {
	switch status {
	case types.BucketVersioningStatusEnabled:
		return storage.VersioningEnabled
	case types.BucketVersioningStatusSuspended:
		return storage.VersioningSuspended
	case "":
		return storage.VersioningDisabled
	default:
		return storage.VersioningState(status)
	}
}
