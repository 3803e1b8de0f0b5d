// Package github implements the GitHub source-control provider. Discovery
// uses the search API so one unit filter maps to one query.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/httpclient"
)

const (
	providerName = "github"
	perPage      = 100
)

// Provider implements domain.Provider for GitHub.
type Provider struct {
	token      string
	org        string // optional org scope; empty means the token owner
	searchTerm string
	client     *gh.Client
	login      string // cached authenticated login
}

var _ domain.Provider = (*Provider)(nil)

// New creates a GitHub provider from its configuration.
func New(cfg config.ProviderConfig) domain.Provider {
	client := gh.NewClient(httpclient.New()).WithAuthToken(cfg.Token)
	return &Provider{
		token:      cfg.Token,
		org:        cfg.Organization,
		searchTerm: cfg.SearchTerm,
		client:     client,
	}
}

func (p *Provider) Name() string { return providerName }

// Authenticate resolves the token owner. The login is kept for scoping
// search queries when no organization is configured.
func (p *Provider) Authenticate(ctx context.Context) error {
	user, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("github authentication check failed: %w", mapError(err))
	}
	p.login = user.GetLogin()
	logger.Debugf("Authenticated to GitHub as %q", p.login)
	return nil
}

// ListRepositories searches repositories whose names contain the filter,
// draining every result page.
func (p *Provider) ListRepositories(ctx context.Context, filter string) ([]domain.Repository, error) {
	query, err := p.buildQuery(ctx, filter)
	if err != nil {
		return nil, err
	}

	var allRepos []domain.Repository
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		result, resp, searchErr := p.client.Search.Repositories(ctx, query, opts)
		if searchErr != nil {
			return nil, fmt.Errorf("github search %q failed: %w", query, mapError(searchErr))
		}

		for _, r := range result.Repositories {
			allRepos = append(allRepos, domain.Repository{
				Name:          r.GetName(),
				Owner:         r.GetOwner().GetLogin(),
				DefaultBranch: r.GetDefaultBranch(),
				CloneURL:      r.GetCloneURL(),
				ProviderName:  providerName,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Debugf("GitHub search %q matched %d repositories", query, len(allRepos))
	return allRepos, nil
}

// AuthCloneURL builds a clone URL with embedded token authentication.
func (p *Provider) AuthCloneURL(repo domain.Repository) string {
	return strings.Replace(repo.CloneURL, "https://", "https://x-access-token:"+p.token+"@", 1)
}

// buildQuery scopes the name search to the configured organization or the
// token owner.
func (p *Provider) buildQuery(ctx context.Context, filter string) (string, error) {
	var b strings.Builder
	b.WriteString(filter)
	if p.searchTerm != "" {
		b.WriteString(" ")
		b.WriteString(p.searchTerm)
	}
	b.WriteString(" in:name")

	if p.org != "" {
		b.WriteString(" org:" + p.org)
		return b.String(), nil
	}

	login, err := p.ensureLogin(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString(" user:" + login)
	return b.String(), nil
}

func (p *Provider) ensureLogin(ctx context.Context) (string, error) {
	if p.login != "" {
		return p.login, nil
	}
	if err := p.Authenticate(ctx); err != nil {
		return "", err
	}
	return p.login, nil
}

// mapError widens go-github error types to the domain error classes.
func mapError(err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%v: %w", err, domain.ErrRateLimited)
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%v: %w", err, domain.ErrRateLimited)
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%v: %w", err, domain.ErrAuth)
		case http.StatusNotFound:
			return fmt.Errorf("%v: %w", err, domain.ErrNotFound)
		}
	}
	return err
}
