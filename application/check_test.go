package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	testdoubles "github.com/hktseng/iqsync/test"
	"github.com/hktseng/iqsync/test/builders"
)

func TestCheckService_Run(t *testing.T) {
	t.Parallel()

	t.Run("should pass when every unit exists on the server", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().WithID("org-1").BuildOrganization()

		spyProv := &testdoubles.SpyProvider{ProviderName: "github"}
		spyIQ := &testdoubles.SpyIQServer{
			Organizations: []domain.Organization{{ID: "org-1", Name: "Payments"}},
		}
		svc := application.NewCheckService(spyProv, spyIQ)

		// when
		err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, spyIQ.AuthenticateCalls)
		assert.Equal(t, 1, spyProv.AuthenticateCalls)
	})

	t.Run("should fail when a unit is missing on the server", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().WithID("org-ghost").BuildOrganization()

		spyProv := &testdoubles.SpyProvider{ProviderName: "github"}
		spyIQ := &testdoubles.SpyIQServer{
			Organizations: []domain.Organization{{ID: "org-1", Name: "Payments"}},
		}
		svc := application.NewCheckService(spyProv, spyIQ)

		// when
		err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing on the IQ Server")
	})

	t.Run("should ignore ineligible units", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		ineligible := config.Organization{ID: "org-2", Name: "Ops"}

		spyProv := &testdoubles.SpyProvider{ProviderName: "github"}
		spyIQ := &testdoubles.SpyIQServer{}
		svc := application.NewCheckService(spyProv, spyIQ)

		// when
		err := svc.Run(ctx, []config.Organization{ineligible})

		// then
		require.NoError(t, err)
	})

	t.Run("should fail fast when the IQ Server rejects the credentials", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()

		spyProv := &testdoubles.SpyProvider{ProviderName: "github"}
		spyIQ := &testdoubles.SpyIQServer{AuthenticateErr: domain.ErrAuth}
		svc := application.NewCheckService(spyProv, spyIQ)

		// when
		err := svc.Run(ctx, nil)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.Zero(t, spyProv.AuthenticateCalls)
	})

	t.Run("should fail fast when the provider rejects the credentials", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()

		spyProv := &testdoubles.SpyProvider{ProviderName: "github", AuthenticateErr: domain.ErrAuth}
		spyIQ := &testdoubles.SpyIQServer{}
		svc := application.NewCheckService(spyProv, spyIQ)

		// when
		err := svc.Run(ctx, nil)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuth)
	})
}
