package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	testdoubles "github.com/hktseng/iqsync/test"
	"github.com/hktseng/iqsync/test/builders"
)

func TestCleanupService_Run(t *testing.T) {
	t.Parallel()

	t.Run("should delete every application of an eligible unit", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().BuildOrganization()

		spyIQ := &testdoubles.SpyIQServer{
			Applications: map[string][]domain.Application{
				unit.ID: {
					builders.NewApplicationBuilder().WithID("app-1").WithPublicID("billing").BuildApplication(),
					builders.NewApplicationBuilder().WithID("app-2").WithPublicID("ledger").BuildApplication(),
				},
			},
		}
		svc := application.NewCleanupService(spyIQ)

		// when
		summary, err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.Summary{Deleted: 2}, summary)
		assert.Equal(t, []string{"app-1", "app-2"}, spyIQ.DeletedAppIDs)
	})

	t.Run("should skip units missing a chineseName entirely", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		ineligible := config.Organization{ID: "org-2", Name: "Ops"}

		spyIQ := &testdoubles.SpyIQServer{
			Applications: map[string][]domain.Application{
				"org-2": {builders.NewApplicationBuilder().WithOrganizationID("org-2").BuildApplication()},
			},
		}
		svc := application.NewCleanupService(spyIQ)

		// when
		summary, err := svc.Run(ctx, []config.Organization{ineligible})

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.Summary{}, summary)
		assert.Empty(
			t, spyIQ.ListAppsOrgIDs,
			"no listing may happen for the unit without a chineseName",
		)
		assert.Empty(t, spyIQ.DeletedAppIDs)
	})

	t.Run("should delete nothing on a second run", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().BuildOrganization()

		spyIQ := &testdoubles.SpyIQServer{
			Applications: map[string][]domain.Application{
				unit.ID: {
					builders.NewApplicationBuilder().WithID("app-1").BuildApplication(),
					builders.NewApplicationBuilder().WithID("app-2").BuildApplication(),
				},
			},
		}
		svc := application.NewCleanupService(spyIQ)

		first, err := svc.Run(ctx, []config.Organization{unit})
		require.NoError(t, err)
		require.Equal(t, domain.Summary{Deleted: 2}, first)

		// when
		second, err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.Summary{}, second)
	})

	t.Run("should keep deleting after a failed delete", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().BuildOrganization()

		spyIQ := &testdoubles.SpyIQServer{
			Applications: map[string][]domain.Application{
				unit.ID: {
					builders.NewApplicationBuilder().WithID("app-1").WithPublicID("billing").BuildApplication(),
					builders.NewApplicationBuilder().WithID("app-2").WithPublicID("ledger").BuildApplication(),
				},
			},
			DeleteErrByApp: map[string]error{
				"app-1": &domain.ServerError{Method: "DELETE", Endpoint: "/applications/app-1", StatusCode: 500},
			},
		}
		svc := application.NewCleanupService(spyIQ)

		// when
		summary, err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.Summary{Deleted: 1, Failed: 1}, summary)
		assert.Equal(
			t, []string{"app-1", "app-2"}, spyIQ.DeletedAppIDs,
			"the failed application must not block the next one",
		)
	})

	t.Run("should count a unit whose application listing fails", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().BuildOrganization()

		spyIQ := &testdoubles.SpyIQServer{ListAppsErr: errors.New("listing exploded")}
		svc := application.NewCleanupService(spyIQ)

		// when
		summary, err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.NoError(t, err)
		assert.Equal(t, domain.Summary{Failed: 1}, summary)
	})

	t.Run("should abort when the IQ Server rejects the credentials", func(t *testing.T) {
		t.Parallel()

		// given
		ctx := context.Background()
		unit := builders.NewOrganizationBuilder().BuildOrganization()

		spyIQ := &testdoubles.SpyIQServer{AuthenticateErr: domain.ErrAuth}
		svc := application.NewCleanupService(spyIQ)

		// when
		_, err := svc.Run(ctx, []config.Organization{unit})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.Empty(t, spyIQ.ListAppsOrgIDs)
	})
}
