// File: pkg/storage/aws/client.go
package aws

import (
	"context"
	"fmt"
	"log/slog"

	"ecsdash/internal/config"
	"ecsdash/internal/provider/registry"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func init() {
	registry.RegisterProvider(common.AWS, registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
		ConfigHint:  "aws.region",
	})
}

// Checks if the AWS configuration block is present and the region is set
func isConfigured(cfg *config.Config) bool {
	return cfg.AWS != nil && cfg.AWS.Region != ""
}

// Initializes the S3 client from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("AWS configuration missing or incomplete")
	}
	return NewAWSStorage(ctx, cfg.AWS.Region, cfg.AWS.Endpoint, logger)
}

// s3API is the subset of the S3 client used by the provider
type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
}

type AWSStorage struct {
	client s3API
	region string
	logger *slog.Logger
}

var _ storage.Storage = (*AWSStorage)(nil)

// Credentials come from the default chain (env, shared config, ECS task role).
// A non-empty endpoint targets an S3-compatible service with path-style addressing
func NewAWSStorage(ctx context.Context, region, endpoint string, logger *slog.Logger) (*AWSStorage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newWithClient(client, region, logger), nil
}

func newWithClient(client s3API, region string, logger *slog.Logger) *AWSStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AWSStorage{
		client: client,
		region: region,
		logger: logger,
	}
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

func (s *AWSStorage) Close() error {
	// The SDK client holds no resources that need releasing
	return nil
}
