package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
)

// CheckService verifies credentials and configuration against both
// remote systems without writing anything.
type CheckService struct {
	provider domain.Provider
	iq       domain.IQServer
}

// NewCheckService creates a new service with the given collaborators.
func NewCheckService(provider domain.Provider, iq domain.IQServer) *CheckService {
	return &CheckService{provider: provider, iq: iq}
}

// Run probes both remotes and cross-checks every eligible unit against
// the organizations known to the IQ Server. A failed probe or a
// missing organization returns an error so the CLI exits non-zero.
func (s *CheckService) Run(ctx context.Context, units []config.Organization) error {
	if err := s.iq.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate against IQ Server: %w", err)
	}
	logger.Info("IQ Server credentials accepted")

	if err := s.provider.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate against %s: %w", s.provider.Name(), err)
	}
	logger.Infof("%s credentials accepted", s.provider.Name())

	orgs, err := s.iq.ListOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list IQ organizations: %w", err)
	}
	known := make(map[string]struct{}, len(orgs))
	for _, org := range orgs {
		known[org.ID] = struct{}{}
	}

	missing := 0
	for _, unit := range units {
		if !unit.Eligible() {
			logger.Warnf("Organization %q is not eligible: missing id or chineseName", unit.Name)
			continue
		}
		if _, ok := known[unit.ID]; !ok {
			logger.Warnf("Organization %q (%s) is missing on the IQ Server", unit.Name, unit.ID)
			missing++
			continue
		}
		logger.Infof("Organization %q (%s) found on the IQ Server", unit.Name, unit.ID)
	}

	if missing > 0 {
		return fmt.Errorf("%d configured organizations are missing on the IQ Server", missing)
	}
	return nil
}
