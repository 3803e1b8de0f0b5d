package provider_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/provider"
	testdoubles "github.com/hktseng/iqsync/test"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should register and retrieve a provider by type", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()
		factory := func(_ config.ProviderConfig) domain.Provider {
			return &testdoubles.SpyProvider{ProviderName: "test-provider"}
		}
		reg.Register("test-provider", factory)

		// when
		prov, err := reg.Get(config.ProviderConfig{Type: "test-provider"})

		// then
		require.NoError(t, err)
		assert.NotNil(t, prov)
		assert.Equal(t, "test-provider", prov.Name())
	})

	t.Run("should return error for unknown provider", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()

		// when
		prov, err := reg.Get(config.ProviderConfig{Type: "nonexistent"})

		// then
		require.Error(t, err)
		assert.Nil(t, prov)
		assert.Contains(t, err.Error(), "unknown provider type")
	})

	t.Run("should list registered provider names", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()
		reg.Register("github", func(_ config.ProviderConfig) domain.Provider {
			return &testdoubles.SpyProvider{ProviderName: "github"}
		})
		reg.Register("azuredevops", func(_ config.ProviderConfig) domain.Provider {
			return &testdoubles.SpyProvider{ProviderName: "azuredevops"}
		})

		// when
		names := reg.Names()

		// then
		assert.Len(t, names, 2)
		assert.ElementsMatch(t, []string{"github", "azuredevops"}, names)
	})

	t.Run("should pass the configuration to the factory", func(t *testing.T) {
		t.Parallel()

		// given
		var received config.ProviderConfig
		reg := provider.NewRegistry()
		reg.Register("custom", func(cfg config.ProviderConfig) domain.Provider {
			received = cfg
			return &testdoubles.SpyProvider{ProviderName: "custom"}
		})

		// when
		_, err := reg.Get(config.ProviderConfig{
			Type:         "custom",
			Token:        "my-secret-token",
			Organization: "contoso",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "my-secret-token", received.Token)
		assert.Equal(t, "contoso", received.Organization)
	})

	t.Run("should return empty names for empty registry", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()

		// when
		names := reg.Names()

		// then
		assert.Empty(t, names)
	})
}
