package cmd

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/gitremote"
	"github.com/hktseng/iqsync/infrastructure/iq"
	providerPkg "github.com/hktseng/iqsync/infrastructure/provider"
	adoProv "github.com/hktseng/iqsync/infrastructure/provider/azuredevops"
	ghProv "github.com/hktseng/iqsync/infrastructure/provider/github"
)

// buildContainer wires configuration, clients, and services into a DIG
// container. Constructors run lazily, so each command only pays for the
// collaborators it resolves.
func buildContainer() (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(loadConfig); err != nil {
		return nil, err
	}
	if err := container.Provide(loadOrganizations); err != nil {
		return nil, err
	}
	if err := container.Provide(newProviderRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := container.Provide(newIQServer); err != nil {
		return nil, err
	}
	if err := container.Provide(newRemoteVerifier); err != nil {
		return nil, err
	}
	if err := container.Provide(application.NewSyncService); err != nil {
		return nil, err
	}
	if err := container.Provide(application.NewCleanupService); err != nil {
		return nil, err
	}
	if err := container.Provide(application.NewCheckService); err != nil {
		return nil, err
	}

	return container, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if providerOverride != "" {
		cfg.Provider.Type = providerOverride
		cfg.ResolveProviderToken()
	}
	if orgsFileOverride != "" {
		cfg.OrganizationsFile = orgsFileOverride
	}
	return cfg, nil
}

func loadOrganizations(cfg *config.Config) ([]config.Organization, error) {
	return config.LoadOrganizations(cfg.OrganizationsFile)
}

func newProviderRegistry() *providerPkg.Registry {
	reg := providerPkg.NewRegistry()
	reg.Register("github", ghProv.New)
	reg.Register("azuredevops", adoProv.New)
	return reg
}

func newProvider(cfg *config.Config, registry *providerPkg.Registry) (domain.Provider, error) {
	return registry.Get(cfg.Provider)
}

func newIQServer(cfg *config.Config) domain.IQServer {
	return iq.NewClient(cfg.IQ.URL, cfg.IQ.Username, cfg.IQ.Password, cfg.IQ.Token)
}

func newRemoteVerifier() domain.RemoteVerifier {
	return gitremote.New()
}
