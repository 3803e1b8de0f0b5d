// Package azuredevops implements the Azure DevOps source-control provider.
// Project descriptions carry an owning-department marker; discovery keeps
// the projects whose marker matches the unit filter and reports each
// matching project's primary repository.
package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/config"
	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/httpclient"
)

const (
	providerName  = "azuredevops"
	apiVersion    = "7.1"
	departmentTag = "權責部門："
)

// Provider implements domain.Provider for Azure DevOps.
type Provider struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ domain.Provider = (*Provider)(nil)

// New creates an Azure DevOps provider from its configuration. The
// organization may be a bare collection name or a full collection URL.
func New(cfg config.ProviderConfig) domain.Provider {
	org := strings.TrimSuffix(cfg.Organization, "/")
	if !strings.HasPrefix(org, "https://") && !strings.HasPrefix(org, "http://") {
		org = "https://dev.azure.com/" + org
	}

	return &Provider{
		baseURL:    org,
		token:      cfg.Token,
		httpClient: httpclient.New(),
	}
}

func (p *Provider) Name() string { return providerName }

// Authenticate verifies the personal access token against the collection.
// A rejected PAT can come back as a 2xx carrying a sign-in page instead of
// a 401, so the response must name an authenticated user to count.
func (p *Provider) Authenticate(ctx context.Context) error {
	resp, _, err := p.doGet(ctx, "/_apis/connectionData")
	if err != nil {
		return fmt.Errorf("azure devops authentication check failed: %w", err)
	}

	var result struct {
		AuthenticatedUser struct {
			ID                  string `json:"id"`
			ProviderDisplayName string `json:"providerDisplayName"`
		} `json:"authenticatedUser"`
	}
	if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr != nil ||
		(result.AuthenticatedUser.ID == "" && result.AuthenticatedUser.ProviderDisplayName == "") {
		return fmt.Errorf("azure devops connection data names no authenticated user: %w", domain.ErrAuth)
	}
	logger.Debugf("Authenticated to Azure DevOps as %q", result.AuthenticatedUser.ProviderDisplayName)
	return nil
}

type projectJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
}

type repositoryJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RemoteURL     string `json:"remoteUrl"`
	DefaultBranch string `json:"defaultBranch"`
}

// ListRepositories returns one descriptor per project whose description
// carries the department marker for the filter. The descriptor takes the
// project's name and its first repository; a project without repositories,
// or whose repository listing fails, yields a descriptor with an empty
// clone URL so the caller charges that project alone.
func (p *Provider) ListRepositories(ctx context.Context, filter string) ([]domain.Repository, error) {
	projects, err := p.listProjects(ctx)
	if err != nil {
		return nil, err
	}

	marker := departmentTag + filter
	var repos []domain.Repository
	for _, project := range projects {
		if !strings.Contains(project.Description, marker) {
			continue
		}

		projectRepos, listErr := p.listProjectRepositories(ctx, project.ID)
		if listErr != nil {
			logger.Warnf("Failed to list repositories of project %q: %v", project.Name, listErr)
			projectRepos = nil
		}

		repo := domain.Repository{
			Name:         project.Name,
			Owner:        project.Name,
			ProviderName: providerName,
		}
		if len(projectRepos) > 0 {
			repo.CloneURL = projectRepos[0].RemoteURL
			repo.DefaultBranch = strings.TrimPrefix(projectRepos[0].DefaultBranch, "refs/heads/")
		}
		repos = append(repos, repo)
	}

	logger.Debugf("Azure DevOps matched %d projects for filter %q", len(repos), filter)
	return repos, nil
}

// AuthCloneURL builds a clone URL with embedded PAT authentication.
func (p *Provider) AuthCloneURL(repo domain.Repository) string {
	return strings.Replace(repo.CloneURL, "https://", "https://pat:"+p.token+"@", 1)
}

// listProjects drains all project pages through the continuation-token
// header.
func (p *Provider) listProjects(ctx context.Context) ([]projectJSON, error) {
	var allProjects []projectJSON
	continuationToken := ""

	for {
		endpoint := "/_apis/projects?api-version=" + apiVersion
		if continuationToken != "" {
			endpoint += "&continuationToken=" + url.QueryEscape(continuationToken)
		}

		resp, headers, err := p.doGet(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		var result struct {
			Value []projectJSON `json:"value"`
			Count int           `json:"count"`
		}
		if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse projects response: %w", unmarshalErr)
		}
		allProjects = append(allProjects, result.Value...)

		continuationToken = headers.Get("x-ms-continuationtoken")
		if continuationToken == "" {
			break
		}
	}

	return allProjects, nil
}

func (p *Provider) listProjectRepositories(ctx context.Context, projectID string) ([]repositoryJSON, error) {
	endpoint := fmt.Sprintf("/%s/_apis/git/repositories?api-version=%s", projectID, apiVersion)

	resp, _, err := p.doGet(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var result struct {
		Value []repositoryJSON `json:"value"`
		Count int              `json:"count"`
	}
	if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse repositories response: %w", unmarshalErr)
	}
	return result.Value, nil
}

func (p *Provider) doGet(ctx context.Context, endpoint string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Basic auth with an empty username, as the PAT convention requires
	auth := base64.StdEncoding.EncodeToString([]byte(":" + p.token))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if classifyErr := httpclient.ClassifyResponse(http.MethodGet, endpoint, resp, respBody); classifyErr != nil {
		return nil, nil, classifyErr
	}

	return respBody, resp.Header, nil
}
