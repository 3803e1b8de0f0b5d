package builders

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/hktseng/iqsync/domain"
)

// ApplicationBuilder helps create IQ applications with a fluent interface.
type ApplicationBuilder struct {
	*testkit.BaseBuilder
	id             string
	publicID       string
	name           string
	organizationID string
}

// NewApplicationBuilder creates a new builder with sensible defaults.
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		BaseBuilder:    testkit.NewBaseBuilder(),
		id:             "app-billing",
		publicID:       "billing",
		name:           "billing",
		organizationID: "org-1",
	}
}

// WithID sets the internal application id.
func (b *ApplicationBuilder) WithID(id string) *ApplicationBuilder {
	b.id = id
	return b
}

// WithPublicID sets the public id.
func (b *ApplicationBuilder) WithPublicID(publicID string) *ApplicationBuilder {
	b.publicID = publicID
	return b
}

// WithName sets the display name.
func (b *ApplicationBuilder) WithName(name string) *ApplicationBuilder {
	b.name = name
	return b
}

// WithOrganizationID sets the owning organization id.
func (b *ApplicationBuilder) WithOrganizationID(orgID string) *ApplicationBuilder {
	b.organizationID = orgID
	return b
}

// Build creates the application (satisfies testkit.Builder interface).
func (b *ApplicationBuilder) Build() interface{} {
	return b.BuildApplication()
}

// BuildApplication creates the application with a concrete return type.
func (b *ApplicationBuilder) BuildApplication() domain.Application {
	return domain.Application{
		ID:             b.id,
		PublicID:       b.publicID,
		Name:           b.name,
		OrganizationID: b.organizationID,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ApplicationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "app-billing"
	b.publicID = "billing"
	b.name = "billing"
	b.organizationID = "org-1"
	return b
}

// Clone creates a deep copy of the ApplicationBuilder.
func (b *ApplicationBuilder) Clone() testkit.Builder {
	return &ApplicationBuilder{
		BaseBuilder:    b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:             b.id,
		publicID:       b.publicID,
		name:           b.name,
		organizationID: b.organizationID,
	}
}
