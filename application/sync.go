package application

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
)

// SyncService orchestrates the full synchronization flow:
// list repositories per organization unit -> ensure an IQ application
// exists for each -> bind its repository -> trigger a scan.
type SyncService struct {
	provider domain.Provider
	iq       domain.IQServer
	verifier domain.RemoteVerifier
}

// NewSyncService creates a new service with the given collaborators.
func NewSyncService(
	provider domain.Provider,
	iq domain.IQServer,
	verifier domain.RemoteVerifier,
) *SyncService {
	return &SyncService{
		provider: provider,
		iq:       iq,
		verifier: verifier,
	}
}

// SyncOptions holds runtime options for a single sync run.
type SyncOptions struct {
	DefaultBranch string // Bound when a repository does not report one
	StageID       string
	VerifyRemotes bool // If set, probe each clone URL before binding it
}

// Run executes the full sync cycle over the given organization units.
// Per-item failures are counted in the summary and never abort the
// run; only a failed authentication probe returns an error.
func (s *SyncService) Run(
	ctx context.Context,
	units []config.Organization,
	opts SyncOptions,
) (domain.Summary, error) {
	var summary domain.Summary

	if err := s.iq.Authenticate(ctx); err != nil {
		return summary, fmt.Errorf("failed to authenticate against IQ Server: %w", err)
	}
	if err := s.provider.Authenticate(ctx); err != nil {
		return summary, fmt.Errorf("failed to authenticate against %s: %w", s.provider.Name(), err)
	}

	for _, unit := range units {
		if !unit.Eligible() {
			logger.Warnf("Skipping organization %q: missing id or chineseName", unit.Name)
			continue
		}
		summary = summary.Add(s.syncUnit(ctx, unit, opts))
	}

	return summary, nil
}

// syncUnit processes every repository of one organization unit and
// returns the counters for that unit alone.
func (s *SyncService) syncUnit(
	ctx context.Context,
	unit config.Organization,
	opts SyncOptions,
) domain.Summary {
	var summary domain.Summary

	logger.Infof("Processing organization %q (%s)", unit.Name, unit.ID)

	exists, err := s.iq.OrganizationExists(ctx, unit.ID)
	if err != nil {
		logger.Errorf("[%s] Failed to look up IQ organization: %v", unit.ID, err)
		summary.Failed++
		return summary
	}
	if !exists {
		logger.Warnf("[%s] Organization not found on the IQ Server, skipping %q", unit.ID, unit.Name)
		return summary
	}

	repos, err := s.provider.ListRepositories(ctx, unit.ChineseName)
	if err != nil {
		logger.Errorf("[%s] Failed to list repositories for %q: %v", unit.ID, unit.ChineseName, err)
		summary.Failed++
		return summary
	}
	logger.Infof("[%s] Found %d repositories for %q", unit.ID, len(repos), unit.ChineseName)

	existing, err := s.iq.ListApplications(ctx, unit.ID)
	if err != nil {
		logger.Errorf("[%s] Failed to list applications: %v", unit.ID, err)
		summary.Failed++
		return summary
	}
	byPublicID := make(map[string]domain.Application, len(existing))
	for _, app := range existing {
		byPublicID[app.PublicID] = app
	}

	for _, repo := range repos {
		summary = summary.Add(s.syncRepository(ctx, unit, repo, byPublicID, opts))
	}

	logger.Infof(
		"Summary for %s: %d created, %d scanned, %d errors.",
		unit.Name, summary.Created, summary.Scanned, summary.Failed,
	)
	return summary
}

// syncRepository ensures one repository is represented, bound, and
// scanned. The first error aborts the remaining steps for this
// repository only.
func (s *SyncService) syncRepository(
	ctx context.Context,
	unit config.Organization,
	repo domain.Repository,
	byPublicID map[string]domain.Application,
	opts SyncOptions,
) domain.Summary {
	var summary domain.Summary

	if repo.CloneURL == "" {
		logger.Errorf("[%s] Repository %q has no clone URL", unit.ID, repo.Name)
		summary.Failed++
		return summary
	}

	publicID := domain.PublicID(repo.Name)
	if publicID == "" {
		logger.Errorf("[%s] Repository name %q yields an empty public id", unit.ID, repo.Name)
		summary.Failed++
		return summary
	}

	app, found := byPublicID[publicID]
	if found {
		logger.Debugf("[%s] Application %q already exists", unit.ID, publicID)
		summary.Skipped++
	} else {
		app, summary = s.createApplication(ctx, unit, repo, publicID)
		if summary.Failed > 0 {
			return summary
		}
		byPublicID[publicID] = app
	}

	if opts.VerifyRemotes && s.verifier != nil {
		if err := s.verifier.Verify(ctx, s.provider.AuthCloneURL(repo)); err != nil {
			logger.Errorf("[%s] Repository %q is not reachable: %v", unit.ID, repo.Name, err)
			summary.Failed++
			return summary
		}
	}

	branch := repo.DefaultBranch
	if branch == "" {
		branch = opts.DefaultBranch
	}

	changed, err := s.iq.EnsureSourceControl(ctx, app.ID, domain.SourceControl{
		RepositoryURL: repo.CloneURL,
		BaseBranch:    branch,
	})
	if err != nil {
		logger.Errorf("[%s] Failed to bind %q to application %q: %v", unit.ID, repo.CloneURL, publicID, err)
		summary.Failed++
		return summary
	}
	if changed {
		logger.Infof("[%s] Bound %q to application %q", unit.ID, repo.CloneURL, publicID)
	}

	if err := s.iq.TriggerScan(ctx, app.ID, branch, opts.StageID); err != nil {
		logger.Errorf("[%s] Failed to trigger scan for %q: %v", unit.ID, publicID, err)
		summary.Failed++
		return summary
	}
	logger.Infof("[%s] Triggered %s scan for %q on branch %q", unit.ID, opts.StageID, publicID, branch)
	summary.Scanned++

	return summary
}

// createApplication creates the application for a repository, treating
// a duplicate-create race as already existing.
func (s *SyncService) createApplication(
	ctx context.Context,
	unit config.Organization,
	repo domain.Repository,
	publicID string,
) (domain.Application, domain.Summary) {
	var summary domain.Summary

	app, err := s.iq.CreateApplication(ctx, repo.Name, publicID, unit.ID)
	if err == nil {
		logger.Infof("[%s] Created application %q", unit.ID, publicID)
		summary.Created++
		return app, summary
	}

	if !errors.Is(err, domain.ErrConflict) {
		logger.Errorf("[%s] Failed to create application %q: %v", unit.ID, publicID, err)
		summary.Failed++
		return domain.Application{}, summary
	}

	// Someone created it between our listing and now; fetch the winner.
	logger.Debugf("[%s] Application %q was created concurrently, re-fetching", unit.ID, publicID)
	existing, findErr := s.iq.FindApplicationByPublicID(ctx, unit.ID, publicID)
	if findErr != nil {
		logger.Errorf("[%s] Failed to re-fetch application %q: %v", unit.ID, publicID, findErr)
		summary.Failed++
		return domain.Application{}, summary
	}
	if existing.IsAbsent() {
		logger.Errorf("[%s] Application %q was reported as duplicate but cannot be found", unit.ID, publicID)
		summary.Failed++
		return domain.Application{}, summary
	}

	summary.Skipped++
	return existing.MustGet(), summary
}
