package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
)

// CleanupService bulk-deletes every IQ application under each eligible
// organization unit. Deletion is irreversible; the CLI layer is
// responsible for asking the operator before invoking it.
type CleanupService struct {
	iq domain.IQServer
}

// NewCleanupService creates a new service with the given client.
func NewCleanupService(iq domain.IQServer) *CleanupService {
	return &CleanupService{iq: iq}
}

// Run deletes all applications of every eligible unit. Per-item
// failures are counted and never abort the run; only a failed
// authentication probe returns an error.
func (s *CleanupService) Run(ctx context.Context, units []config.Organization) (domain.Summary, error) {
	var summary domain.Summary

	if err := s.iq.Authenticate(ctx); err != nil {
		return summary, fmt.Errorf("failed to authenticate against IQ Server: %w", err)
	}

	for _, unit := range units {
		if !unit.Eligible() {
			logger.Warnf("Skipping organization %q: missing id or chineseName", unit.Name)
			continue
		}
		summary = summary.Add(s.cleanupUnit(ctx, unit))
	}

	return summary, nil
}

func (s *CleanupService) cleanupUnit(ctx context.Context, unit config.Organization) domain.Summary {
	var summary domain.Summary

	logger.Infof("Cleaning up organization %q (%s)", unit.Name, unit.ID)

	apps, err := s.iq.ListApplications(ctx, unit.ID)
	if err != nil {
		logger.Errorf("[%s] Failed to list applications: %v", unit.ID, err)
		summary.Failed++
		return summary
	}
	if len(apps) == 0 {
		logger.Infof("[%s] No applications left", unit.ID)
		return summary
	}

	for _, app := range apps {
		if err := s.iq.DeleteApplication(ctx, app.ID); err != nil {
			logger.Errorf("[%s] Failed to delete application %q: %v", unit.ID, app.PublicID, err)
			summary.Failed++
			continue
		}
		logger.Infof("[%s] Deleted application %q", unit.ID, app.PublicID)
		summary.Deleted++
	}

	logger.Infof(
		"Summary for %s: %d deleted, %d errors.",
		unit.Name, summary.Deleted, summary.Failed,
	)
	return summary
}
