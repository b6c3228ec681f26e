package factory

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"ecsdash/internal/config"
	"ecsdash/internal/provider/registry"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStorage struct {
	name   common.Provider
	closed *bool
}

func (nopStorage) ListBuckets(ctx context.Context) ([]storage.BucketSummary, error) { return nil, nil }
func (nopStorage) BucketRegion(ctx context.Context, bucket string) (string, error) {
	return "", nil
}
func (nopStorage) BucketVersioning(ctx context.Context, bucket string) (storage.VersioningState, error) {
	return storage.VersioningDisabled, nil
}
func (s nopStorage) ProviderName() common.Provider { return s.name }
func (s nopStorage) Close() error {
	if s.closed != nil {
		*s.closed = true
	}
	return nil
}

var impostorClosed bool

// Registered once for the package; the checks read the fake section through the AWS block
func init() {
	registry.RegisterProvider("factory-fake", registry.ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return cfg.AWS != nil && cfg.AWS.Service == "fake" },
		Initializer: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
			return nopStorage{name: "FACTORY-FAKE"}, nil
		},
		ConfigHint: "aws.service",
	})
	registry.RegisterProvider("factory-unset", registry.ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return false },
		Initializer: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
			return nil, errors.New("never initialized")
		},
	})
	registry.RegisterProvider("factory-impostor", registry.ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return cfg.App.Environment == "impostor" },
		Initializer: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
			return nopStorage{name: common.AWS, closed: &impostorClosed}, nil
		},
	})
	registry.RegisterProvider("factory-broken", registry.ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return true },
		Initializer: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
			return nil, errors.New("no credentials")
		},
	})
}

func TestGetStorageProvider(t *testing.T) {
	cfg := &config.Config{AWS: &config.AWSConfig{Region: "us-east-1", Service: "fake"}}
	f := NewFactory(cfg, slog.Default())

	client, err := f.GetStorageProvider(context.Background(), " Factory-Fake ")
	require.NoError(t, err)
	assert.Equal(t, common.Provider("FACTORY-FAKE"), client.ProviderName())
}

func TestGetStorageProvider_Errors(t *testing.T) {
	f := NewFactory(&config.Config{}, slog.Default())

	_, err := f.GetStorageProvider(context.Background(), "azure")
	assert.ErrorIs(t, err, registry.ErrUnsupportedProvider)

	_, err = f.GetStorageProvider(context.Background(), "factory-fake")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	assert.Contains(t, err.Error(), "aws.service")

	_, err = f.GetStorageProvider(context.Background(), "factory-unset")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	assert.Contains(t, err.Error(), "factory-unset.<key>", "falls back to a generic hint")

	_, err = f.GetStorageProvider(context.Background(), "factory-broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
}

func TestConfiguredProviders(t *testing.T) {
	f := NewFactory(&config.Config{AWS: &config.AWSConfig{Service: "fake"}}, slog.Default())

	assert.True(t, f.IsConfigured("factory-fake"))
	assert.False(t, f.IsConfigured("unknown"))
	assert.Equal(t, []string{"factory-broken", "factory-fake"}, f.GetConfiguredProviders())
}

func TestGetStorageProvider_RejectsMismatchedClient(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Environment: "impostor"}}

	_, err := NewFactory(cfg, slog.Default()).GetStorageProvider(context.Background(), "factory-impostor")
	assert.ErrorIs(t, err, ErrProviderMismatch)
	assert.True(t, impostorClosed, "rejected client is closed")
}
