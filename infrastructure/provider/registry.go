package provider

import (
	"fmt"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
)

// Registry manages all registered source-control provider implementations.
type Registry struct {
	providers map[string]Factory
}

// Factory is a constructor function that creates a Provider from its
// configuration.
type Factory func(cfg config.ProviderConfig) domain.Provider

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Factory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *Registry) Register(name string, factory Factory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the configured type.
func (r *Registry) Get(cfg config.ProviderConfig) (domain.Provider, error) {
	factory, ok := r.providers[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}
	return factory(cfg), nil
}

// Names returns the list of registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
