package registry

import (
	"context"
	"log/slog"
	"testing"

	"ecsdash/internal/config"
	"ecsdash/pkg/common"
	"ecsdash/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRegistration() ProviderRegistration {
	return ProviderRegistration{
		ConfigCheck: func(cfg *config.Config) bool { return true },
		Initializer: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
			return nil, nil
		},
	}
}

func TestRegisterProvider(t *testing.T) {
	RegisterProvider("Registry-Test", noopRegistration())
	t.Cleanup(func() { unregister("registry-test") })

	assert.True(t, IsSupported("registry-test"))
	assert.True(t, IsSupported(" REGISTRY-TEST "))
	assert.Contains(t, GetSupportedProviders(), "registry-test")
	assert.Contains(t, GetAllRegistrations(), common.Provider("REGISTRY-TEST"))

	assert.Panics(t, func() { RegisterProvider("registry-test", noopRegistration()) })
}

func TestRegisterProvider_IncompleteRegistration(t *testing.T) {
	assert.Panics(t, func() {
		RegisterProvider("no-check", ProviderRegistration{Initializer: noopRegistration().Initializer})
	})
	assert.Panics(t, func() {
		RegisterProvider("no-init", ProviderRegistration{ConfigCheck: noopRegistration().ConfigCheck})
	})
	assert.Panics(t, func() { RegisterProvider("  ", noopRegistration()) })
	assert.False(t, IsSupported("no-check"))
	assert.False(t, IsSupported("no-init"))
}

func TestLookup(t *testing.T) {
	RegisterProvider("lookup-test", noopRegistration())
	t.Cleanup(func() { unregister("lookup-test") })

	provider, registration, err := Lookup(" Lookup-Test ")
	require.NoError(t, err)
	assert.Equal(t, common.Provider("LOOKUP-TEST"), provider)
	assert.NotNil(t, registration.Initializer)

	_, _, err = Lookup("azure")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), "lookup-test")
}

func TestGetAllRegistrationsReturnsCopy(t *testing.T) {
	RegisterProvider("copy-test", noopRegistration())
	t.Cleanup(func() { unregister("copy-test") })

	regs := GetAllRegistrations()
	delete(regs, "COPY-TEST")
	assert.True(t, IsSupported("copy-test"))
}
