// Package iq implements the Sonatype IQ Server v2 REST client.
package iq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/samber/mo"
	logger "github.com/sirupsen/logrus"

	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/httpclient"
)

// Client talks to the IQ Server v2 REST API.
type Client struct {
	baseURL    string
	username   string
	password   string
	token      string
	httpClient *http.Client
}

var _ domain.IQServer = (*Client)(nil)

// NewClient creates a client for the given server. Credentials are either a
// username/password pair (Basic auth) or a bearer token; the token wins when
// both are set.
func NewClient(baseURL, username, password, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		username:   username,
		password:   password,
		token:      token,
		httpClient: httpclient.New(),
	}
}

// Authenticate verifies the credentials by listing organizations, the
// cheapest call that exercises the account's read permission.
func (c *Client) Authenticate(ctx context.Context) error {
	orgs, err := c.ListOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("iq server authentication check failed: %w", err)
	}
	logger.Debugf("IQ Server reachable, %d organizations visible", len(orgs))
	return nil
}

type organizationJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListOrganizations returns every organization visible to the account.
func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v2/organizations", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Organizations []organizationJSON `json:"organizations"`
	}
	if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse organizations response: %w", unmarshalErr)
	}

	orgs := make([]domain.Organization, 0, len(result.Organizations))
	for _, org := range result.Organizations {
		orgs = append(orgs, domain.Organization{ID: org.ID, Name: org.Name})
	}
	return orgs, nil
}

// OrganizationExists reports whether the organization id is known to the
// server.
func (c *Client) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/v2/organizations/"+orgID, nil)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type applicationJSON struct {
	ID             string `json:"id"`
	PublicID       string `json:"publicId"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
}

func (a applicationJSON) toDomain() domain.Application {
	return domain.Application{
		ID:             a.ID,
		PublicID:       a.PublicID,
		Name:           a.Name,
		OrganizationID: a.OrganizationID,
	}
}

// ListApplications returns all applications under an organization. The server
// delivers the full set in a single payload.
func (c *Client) ListApplications(ctx context.Context, orgID string) ([]domain.Application, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v2/applications/organization/"+orgID, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Applications []applicationJSON `json:"applications"`
	}
	if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse applications response: %w", unmarshalErr)
	}

	apps := make([]domain.Application, 0, len(result.Applications))
	for _, app := range result.Applications {
		apps = append(apps, app.toDomain())
	}
	return apps, nil
}

// FindApplicationByPublicID looks up one application in an organization by
// its public id.
func (c *Client) FindApplicationByPublicID(
	ctx context.Context,
	orgID, publicID string,
) (mo.Option[domain.Application], error) {
	apps, err := c.ListApplications(ctx, orgID)
	if err != nil {
		return mo.None[domain.Application](), err
	}
	for _, app := range apps {
		if app.PublicID == publicID {
			return mo.Some(app), nil
		}
	}
	return mo.None[domain.Application](), nil
}

// CreateApplication creates an application under an organization. A duplicate
// public id surfaces as ErrConflict.
func (c *Client) CreateApplication(
	ctx context.Context,
	name, publicID, orgID string,
) (domain.Application, error) {
	body := map[string]string{
		"publicId":       publicID,
		"name":           name,
		"organizationId": orgID,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v2/applications", body)
	if err != nil {
		return domain.Application{}, asConflict(err)
	}

	var created applicationJSON
	if unmarshalErr := json.Unmarshal(resp, &created); unmarshalErr != nil {
		return domain.Application{}, fmt.Errorf("failed to parse application response: %w", unmarshalErr)
	}
	return created.toDomain(), nil
}

// asConflict widens duplicate-id rejections to ErrConflict. The server
// answers 409 on newer releases and 400 with an "already exists" message on
// older ones.
func asConflict(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return err
	}
	var srvErr *domain.ServerError
	if errors.As(err, &srvErr) && srvErr.StatusCode == http.StatusBadRequest {
		lower := strings.ToLower(srvErr.Body)
		if strings.Contains(lower, "exist") || strings.Contains(lower, "unique") {
			return fmt.Errorf("%s %s: %w", srvErr.Method, srvErr.Endpoint, domain.ErrConflict)
		}
	}
	return err
}

type sourceControlJSON struct {
	ID                              string `json:"id,omitempty"`
	RepositoryURL                   string `json:"repositoryUrl"`
	BaseBranch                      string `json:"baseBranch"`
	RemediationPullRequestsEnabled  bool   `json:"remediationPullRequestsEnabled"`
	PullRequestCommentingEnabled    bool   `json:"pullRequestCommentingEnabled"`
	SourceControlEvaluationsEnabled bool   `json:"sourceControlEvaluationsEnabled"`
}

// EnsureSourceControl reconciles the application's SCM binding with the
// desired state and reports whether a write was issued.
func (c *Client) EnsureSourceControl(
	ctx context.Context,
	appID string,
	sc domain.SourceControl,
) (bool, error) {
	endpoint := "/api/v2/sourceControl/application/" + appID

	current, err := c.getSourceControl(ctx, endpoint)
	if err != nil {
		return false, err
	}

	desired := sourceControlJSON{
		RepositoryURL:                   sc.RepositoryURL,
		BaseBranch:                      sc.BaseBranch,
		RemediationPullRequestsEnabled:  true,
		PullRequestCommentingEnabled:    true,
		SourceControlEvaluationsEnabled: true,
	}

	switch {
	case current == nil:
		if _, postErr := c.doRequest(ctx, http.MethodPost, endpoint, desired); postErr != nil {
			return false, postErr
		}
		return true, nil
	case current.RepositoryURL == sc.RepositoryURL && current.BaseBranch == sc.BaseBranch:
		return false, nil
	default:
		desired.ID = current.ID
		if _, putErr := c.doRequest(ctx, http.MethodPut, endpoint, desired); putErr != nil {
			return false, putErr
		}
		return true, nil
	}
}

// getSourceControl returns the current binding, or nil when the application
// has none yet. An application without a binding answers 404 on recent
// releases, an empty payload on older ones.
func (c *Client) getSourceControl(ctx context.Context, endpoint string) (*sourceControlJSON, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp)) == 0 {
		return nil, nil
	}

	var current sourceControlJSON
	if unmarshalErr := json.Unmarshal(resp, &current); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse source control response: %w", unmarshalErr)
	}
	if current.ID == "" && current.RepositoryURL == "" {
		return nil, nil
	}
	return &current, nil
}

// TriggerScan starts a source-control evaluation for the application. The
// evaluation result is not awaited.
func (c *Client) TriggerScan(ctx context.Context, appID, branch, stageID string) error {
	body := map[string]string{
		"stageId":    stageID,
		"branchName": branch,
	}

	endpoint := "/api/v2/evaluation/applications/" + appID + "/sourceControlEvaluation"
	resp, err := c.doRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}

	var result struct {
		StatusURL string `json:"statusUrl"`
	}
	if unmarshalErr := json.Unmarshal(resp, &result); unmarshalErr == nil && result.StatusURL != "" {
		logger.Debugf("Evaluation submitted for application %s: %s", appID, result.StatusURL)
	}
	return nil
}

// DeleteApplication removes an application. Deleting one that is already
// gone is a success.
func (c *Client) DeleteApplication(ctx context.Context, appID string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/api/v2/applications/"+appID, nil)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debugf("Application %s already deleted", appID)
		return nil
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.password))
		req.Header.Set("Authorization", "Basic "+auth)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if classifyErr := httpclient.ClassifyResponse(method, endpoint, resp, respBody); classifyErr != nil {
		return nil, classifyErr
	}

	return respBody, nil
}
