// Package builders provides fluent test-data builders for the entities
// used across the service and client tests.
package builders

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/hktseng/iqsync/config"
)

// OrganizationBuilder helps create organization units with a fluent interface.
type OrganizationBuilder struct {
	*testkit.BaseBuilder
	id          string
	name        string
	chineseName string
}

// NewOrganizationBuilder creates a new builder with sensible defaults.
func NewOrganizationBuilder() *OrganizationBuilder {
	return &OrganizationBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          "org-1",
		name:        "Payments",
		chineseName: "支付部",
	}
}

// WithID sets the IQ organization id.
func (b *OrganizationBuilder) WithID(id string) *OrganizationBuilder {
	b.id = id
	return b
}

// WithName sets the display name.
func (b *OrganizationBuilder) WithName(name string) *OrganizationBuilder {
	b.name = name
	return b
}

// WithChineseName sets the department name used for repository matching.
func (b *OrganizationBuilder) WithChineseName(chineseName string) *OrganizationBuilder {
	b.chineseName = chineseName
	return b
}

// Build creates the organization (satisfies testkit.Builder interface).
func (b *OrganizationBuilder) Build() interface{} {
	return b.BuildOrganization()
}

// BuildOrganization creates the organization with a concrete return type.
func (b *OrganizationBuilder) BuildOrganization() config.Organization {
	return config.Organization{
		ID:          b.id,
		Name:        b.name,
		ChineseName: b.chineseName,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *OrganizationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "org-1"
	b.name = "Payments"
	b.chineseName = "支付部"
	return b
}

// Clone creates a deep copy of the OrganizationBuilder.
func (b *OrganizationBuilder) Clone() testkit.Builder {
	return &OrganizationBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:          b.id,
		name:        b.name,
		chineseName: b.chineseName,
	}
}
