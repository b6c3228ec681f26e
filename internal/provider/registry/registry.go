// File: internal/provider/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"ecsdash/internal/config"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"
)

var ErrUnsupportedProvider = errors.New("unsupported provider")

// Reports whether the configuration carries everything the provider needs
type ProviderConfigCheck func(cfg *config.Config) bool

// Creates a storage client able to list buckets and resolve their facets
type ProviderInitializer func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error)

type ProviderRegistration struct {
	ConfigCheck ProviderConfigCheck
	Initializer ProviderInitializer
	// Shown in 'config set' hints, e.g. "aws.region"
	ConfigHint string
}

var (
	providerRegistry = make(map[common.Provider]ProviderRegistration)
	registryMu       sync.RWMutex
)

// Called from the init() of each provider package
func RegisterProvider(provider common.Provider, registration ProviderRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()

	provider = common.ParseProvider(string(provider))
	if provider == "" {
		panic("provider registered without a name")
	}
	if _, exists := providerRegistry[provider]; exists {
		panic(fmt.Sprintf("provider %s already registered", provider.Key()))
	}
	if registration.ConfigCheck == nil {
		panic(fmt.Sprintf("provider %s registration missing ConfigCheck", provider.Key()))
	}
	if registration.Initializer == nil {
		panic(fmt.Sprintf("provider %s registration missing Initializer", provider.Key()))
	}

	providerRegistry[provider] = registration
}

// Returns the sorted registry keys of all registered providers (e.g., ["aws", "gcp"])
func GetSupportedProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(providerRegistry))
	for provider := range providerRegistry {
		keys = append(keys, provider.Key())
	}
	sort.Strings(keys)
	return keys
}

func IsSupported(providerName string) bool {
	_, _, err := Lookup(providerName)
	return err == nil
}

// Resolves a user-supplied provider name. Unknown names wrap ErrUnsupportedProvider
func Lookup(providerName string) (common.Provider, ProviderRegistration, error) {
	provider := common.ParseProvider(providerName)

	registryMu.RLock()
	registration, exists := providerRegistry[provider]
	registryMu.RUnlock()

	if !exists {
		return "", ProviderRegistration{}, fmt.Errorf("%w: %s. Supported providers are: %v", ErrUnsupportedProvider, providerName, GetSupportedProviders())
	}
	return provider, registration, nil
}

// Returns a copy of the registry map
func GetAllRegistrations() map[common.Provider]ProviderRegistration {
	registryMu.RLock()
	defer registryMu.RUnlock()

	registrations := make(map[common.Provider]ProviderRegistration, len(providerRegistry))
	for k, v := range providerRegistry {
		registrations[k] = v
	}
	return registrations
}

// Removes a registration; only meant for tests that register throwaway providers
func unregister(provider common.Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(providerRegistry, common.ParseProvider(string(provider)))
}
