// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations, no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/hktseng/iqsync/domain"
)

// ---------------------------------------------------------------------------
// SpyProvider
// ---------------------------------------------------------------------------

// SpyProvider implements domain.Provider as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyProvider struct {
	// --- identity ---
	ProviderName string

	// --- Authenticate ---
	AuthenticateErr error
	// spy: number of authentication probes
	AuthenticateCalls int

	// --- ListRepositories ---
	Repositories []domain.Repository
	// RepositoriesByFilter overrides Repositories per filter when set.
	RepositoriesByFilter map[string][]domain.Repository
	ListErr              error
	// spy: filters that were requested
	ListedFilters []string

	// --- AuthCloneURL ---
	// spy: repos whose authenticated clone URL was requested
	CloneURLRepos []domain.Repository
}

var _ domain.Provider = (*SpyProvider)(nil)

func (p *SpyProvider) Name() string { return p.ProviderName }

func (p *SpyProvider) Authenticate(_ context.Context) error {
	p.AuthenticateCalls++
	return p.AuthenticateErr
}

func (p *SpyProvider) ListRepositories(
	_ context.Context,
	filter string,
) ([]domain.Repository, error) {
	p.ListedFilters = append(p.ListedFilters, filter)
	if p.RepositoriesByFilter != nil {
		return p.RepositoriesByFilter[filter], p.ListErr
	}
	return p.Repositories, p.ListErr
}

func (p *SpyProvider) AuthCloneURL(repo domain.Repository) string {
	p.CloneURLRepos = append(p.CloneURLRepos, repo)
	if repo.CloneURL != "" {
		return repo.CloneURL
	}
	return fmt.Sprintf("https://example.com/%s/%s.git", repo.Owner, repo.Name)
}

// ---------------------------------------------------------------------------
// SpyIQServer
// ---------------------------------------------------------------------------

// ScanCall records a single invocation of TriggerScan.
type ScanCall struct {
	AppID   string
	Branch  string
	StageID string
}

// SpyIQServer implements domain.IQServer as a configurable spy.
// CreateApplication and DeleteApplication mutate the Applications map,
// so re-running a service against the same spy observes prior writes.
type SpyIQServer struct {
	// --- Authenticate ---
	AuthenticateErr error
	// spy: number of authentication probes
	AuthenticateCalls int

	// --- ListOrganizations ---
	Organizations []domain.Organization
	ListOrgsErr   error

	// --- OrganizationExists ---
	// KnownOrgs holds the ids reported as existing. When nil, every id
	// exists.
	KnownOrgs    map[string]bool
	OrgExistsErr error
	// spy: ids that were checked
	OrgExistsIDs []string

	// --- ListApplications ---
	Applications map[string][]domain.Application // org id -> applications
	ListAppsErr  error
	// spy: org ids that were listed
	ListAppsOrgIDs []string

	// --- FindApplicationByPublicID ---
	// FindResults overrides the Applications scan per public id when set.
	FindResults map[string]domain.Application
	FindErr     error
	// spy: public ids that were looked up
	FindPublicIDs []string

	// --- CreateApplication ---
	CreateErr error
	// spy: applications whose creation was attempted
	CreateCalls []domain.Application

	// --- EnsureSourceControl ---
	EnsureChanged bool
	EnsureErr     error
	// spy: last binding received per app id
	EnsureCalls map[string]domain.SourceControl

	// --- TriggerScan ---
	ScanErr error
	// ScanErrByApp overrides ScanErr for specific app ids.
	ScanErrByApp map[string]error
	// spy: scans that were triggered
	ScanCalls []ScanCall

	// --- DeleteApplication ---
	DeleteErr error
	// DeleteErrByApp overrides DeleteErr for specific app ids.
	DeleteErrByApp map[string]error
	// spy: app ids whose deletion was attempted
	DeletedAppIDs []string
}

var _ domain.IQServer = (*SpyIQServer)(nil)

func (s *SpyIQServer) Authenticate(_ context.Context) error {
	s.AuthenticateCalls++
	return s.AuthenticateErr
}

func (s *SpyIQServer) ListOrganizations(_ context.Context) ([]domain.Organization, error) {
	return s.Organizations, s.ListOrgsErr
}

func (s *SpyIQServer) OrganizationExists(_ context.Context, orgID string) (bool, error) {
	s.OrgExistsIDs = append(s.OrgExistsIDs, orgID)
	if s.OrgExistsErr != nil {
		return false, s.OrgExistsErr
	}
	if s.KnownOrgs != nil {
		return s.KnownOrgs[orgID], nil
	}
	return true, nil
}

func (s *SpyIQServer) ListApplications(
	_ context.Context,
	orgID string,
) ([]domain.Application, error) {
	s.ListAppsOrgIDs = append(s.ListAppsOrgIDs, orgID)
	if s.ListAppsErr != nil {
		return nil, s.ListAppsErr
	}
	apps := make([]domain.Application, len(s.Applications[orgID]))
	copy(apps, s.Applications[orgID])
	return apps, nil
}

func (s *SpyIQServer) FindApplicationByPublicID(
	_ context.Context,
	orgID, publicID string,
) (mo.Option[domain.Application], error) {
	s.FindPublicIDs = append(s.FindPublicIDs, publicID)
	if s.FindErr != nil {
		return mo.None[domain.Application](), s.FindErr
	}
	if app, ok := s.FindResults[publicID]; ok {
		return mo.Some(app), nil
	}
	for _, app := range s.Applications[orgID] {
		if app.PublicID == publicID {
			return mo.Some(app), nil
		}
	}
	return mo.None[domain.Application](), nil
}

func (s *SpyIQServer) CreateApplication(
	_ context.Context,
	name, publicID, orgID string,
) (domain.Application, error) {
	app := domain.Application{
		ID:             "app-" + publicID,
		PublicID:       publicID,
		Name:           name,
		OrganizationID: orgID,
	}
	s.CreateCalls = append(s.CreateCalls, app)
	if s.CreateErr != nil {
		return domain.Application{}, s.CreateErr
	}
	if s.Applications == nil {
		s.Applications = make(map[string][]domain.Application)
	}
	s.Applications[orgID] = append(s.Applications[orgID], app)
	return app, nil
}

func (s *SpyIQServer) EnsureSourceControl(
	_ context.Context,
	appID string,
	sc domain.SourceControl,
) (bool, error) {
	if s.EnsureCalls == nil {
		s.EnsureCalls = make(map[string]domain.SourceControl)
	}
	s.EnsureCalls[appID] = sc
	return s.EnsureChanged, s.EnsureErr
}

func (s *SpyIQServer) TriggerScan(_ context.Context, appID, branch, stageID string) error {
	s.ScanCalls = append(s.ScanCalls, ScanCall{AppID: appID, Branch: branch, StageID: stageID})
	if err, ok := s.ScanErrByApp[appID]; ok {
		return err
	}
	return s.ScanErr
}

func (s *SpyIQServer) DeleteApplication(_ context.Context, appID string) error {
	s.DeletedAppIDs = append(s.DeletedAppIDs, appID)
	if err, ok := s.DeleteErrByApp[appID]; ok {
		return err
	}
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	for orgID, apps := range s.Applications {
		kept := apps[:0]
		for _, app := range apps {
			if app.ID != appID {
				kept = append(kept, app)
			}
		}
		s.Applications[orgID] = kept
	}
	return nil
}

// ---------------------------------------------------------------------------
// SpyVerifier
// ---------------------------------------------------------------------------

// SpyVerifier implements domain.RemoteVerifier as a configurable spy.
type SpyVerifier struct {
	VerifyErr error
	// spy: urls that were probed
	VerifiedURLs []string
}

var _ domain.RemoteVerifier = (*SpyVerifier)(nil)

func (v *SpyVerifier) Verify(_ context.Context, authURL string) error {
	v.VerifiedURLs = append(v.VerifiedURLs, authURL)
	return v.VerifyErr
}
