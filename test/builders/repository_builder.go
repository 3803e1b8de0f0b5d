package builders

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/hktseng/iqsync/domain"
)

// RepositoryBuilder helps create repository descriptors with a fluent interface.
type RepositoryBuilder struct {
	*testkit.BaseBuilder
	name          string
	owner         string
	defaultBranch string
	cloneURL      string
	providerName  string
}

// NewRepositoryBuilder creates a new builder with sensible defaults.
func NewRepositoryBuilder() *RepositoryBuilder {
	return &RepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		name:          "billing",
		owner:         "contoso",
		defaultBranch: "main",
		cloneURL:      "https://example.com/contoso/billing.git",
		providerName:  "github",
	}
}

// WithName sets the repository name.
func (b *RepositoryBuilder) WithName(name string) *RepositoryBuilder {
	b.name = name
	return b
}

// WithOwner sets the owning organization or project.
func (b *RepositoryBuilder) WithOwner(owner string) *RepositoryBuilder {
	b.owner = owner
	return b
}

// WithDefaultBranch sets the default branch.
func (b *RepositoryBuilder) WithDefaultBranch(branch string) *RepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithCloneURL sets the clone URL.
func (b *RepositoryBuilder) WithCloneURL(url string) *RepositoryBuilder {
	b.cloneURL = url
	return b
}

// WithProviderName sets the originating provider.
func (b *RepositoryBuilder) WithProviderName(name string) *RepositoryBuilder {
	b.providerName = name
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *RepositoryBuilder) Build() interface{} {
	return b.BuildRepository()
}

// BuildRepository creates the repository with a concrete return type.
func (b *RepositoryBuilder) BuildRepository() domain.Repository {
	return domain.Repository{
		Name:          b.name,
		Owner:         b.owner,
		DefaultBranch: b.defaultBranch,
		CloneURL:      b.cloneURL,
		ProviderName:  b.providerName,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *RepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "billing"
	b.owner = "contoso"
	b.defaultBranch = "main"
	b.cloneURL = "https://example.com/contoso/billing.git"
	b.providerName = "github"
	return b
}

// Clone creates a deep copy of the RepositoryBuilder.
func (b *RepositoryBuilder) Clone() testkit.Builder {
	return &RepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		owner:         b.owner,
		defaultBranch: b.defaultBranch,
		cloneURL:      b.cloneURL,
		providerName:  b.providerName,
	}
}
