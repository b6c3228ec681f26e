// File: internal/provider/factory/factory.go
package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"ecsdash/internal/config"
	"ecsdash/internal/provider/registry"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"
)

var (
	ErrProviderNotConfigured = errors.New("provider is not configured")
	ErrProviderMismatch      = errors.New("provider returned a client for a different provider")
)

// Factory turns registered providers into storage clients for one loaded configuration
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger.With("component", "ProviderFactory"),
	}
}

// Registry keys of the providers whose configuration is complete, sorted
func (f *Factory) GetConfiguredProviders() []string {
	var keys []string
	for provider, registration := range registry.GetAllRegistrations() {
		if registration.ConfigCheck(f.cfg) {
			keys = append(keys, provider.Key())
		}
	}
	sort.Strings(keys)
	return keys
}

func (f *Factory) IsConfigured(providerName string) bool {
	_, registration, err := registry.Lookup(providerName)
	return err == nil && registration.ConfigCheck(f.cfg)
}

// Builds a new client for the provider. Callers own the client and must Close it
func (f *Factory) GetStorageProvider(ctx context.Context, providerName string) (storage.Storage, error) {
	provider, registration, err := registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	if !registration.ConfigCheck(f.cfg) {
		return nil, fmt.Errorf("%w: '%s'. Use 'ecsdash config set %s <value>'", ErrProviderNotConfigured, provider.Key(), configHint(provider, registration))
	}

	logger := f.logger.With("provider", provider.Key())
	client, err := registration.Initializer(ctx, f.cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", provider.Key(), err)
	}

	if got := client.ProviderName(); got != provider {
		_ = client.Close()
		return nil, fmt.Errorf("%w: registered as %s, client reports %s", ErrProviderMismatch, provider, got)
	}

	logger.Debug("Initialized storage client")
	return client, nil
}

func configHint(provider common.Provider, registration registry.ProviderRegistration) string {
	if registration.ConfigHint != "" {
		return registration.ConfigHint
	}
	return provider.Key() + ".<key>"
}
