package domain

import "context"

// Provider abstracts a source-control hosting service (GitHub, Azure DevOps).
// Each implementation handles authentication and repository discovery for its
// platform.
type Provider interface {
	// Name returns the provider identifier (e.g. "github", "azuredevops").
	Name() string

	// Authenticate verifies the configured credentials with a cheap identity
	// call. A rejection before discovery aborts the whole run.
	Authenticate(ctx context.Context) error

	// ListRepositories returns the repositories matching the given unit
	// filter. GitHub matches the filter against repository names; Azure
	// DevOps matches it against the owning-department marker in project
	// descriptions. All result pages are drained before returning.
	ListRepositories(ctx context.Context, filter string) ([]Repository, error)

	// AuthCloneURL returns an HTTPS clone URL with embedded credentials,
	// suitable for remote reachability checks.
	AuthCloneURL(repo Repository) string
}
