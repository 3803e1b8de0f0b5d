package domain

import (
	"context"

	"github.com/samber/mo"
)

// IQServer abstracts the Sonatype IQ Server REST surface used by the
// synchronization and cleanup flows.
type IQServer interface {
	// Authenticate verifies the configured credentials against the server.
	Authenticate(ctx context.Context) error

	// ListOrganizations returns every organization visible to the account.
	ListOrganizations(ctx context.Context) ([]Organization, error)

	// OrganizationExists reports whether the organization id is known to the
	// server.
	OrganizationExists(ctx context.Context, orgID string) (bool, error)

	// ListApplications returns all applications under an organization.
	ListApplications(ctx context.Context, orgID string) ([]Application, error)

	// FindApplicationByPublicID looks up one application in an organization
	// by its public id.
	FindApplicationByPublicID(ctx context.Context, orgID, publicID string) (mo.Option[Application], error)

	// CreateApplication creates an application under an organization.
	// A duplicate public id surfaces as ErrConflict.
	CreateApplication(ctx context.Context, name, publicID, orgID string) (Application, error)

	// EnsureSourceControl reconciles the application's SCM binding with the
	// desired state and reports whether a write was issued.
	EnsureSourceControl(ctx context.Context, appID string, sc SourceControl) (bool, error)

	// TriggerScan starts a source-control evaluation for the application.
	// The evaluation result is not awaited.
	TriggerScan(ctx context.Context, appID, branch, stageID string) error

	// DeleteApplication removes an application. Deleting one that is already
	// gone is a success.
	DeleteApplication(ctx context.Context, appID string) error
}

// RemoteVerifier checks that a repository remote is reachable with the
// credentials embedded in its URL.
type RemoteVerifier interface {
	Verify(ctx context.Context, authURL string) error
}
