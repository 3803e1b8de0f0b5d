// Package httpclient builds the HTTP client shared by the REST integrations
// and maps response statuses onto the domain error classes.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hktseng/iqsync/domain"
)

// New returns an HTTP client with a 30 second per-request timeout that
// retries a rate-limited request exactly once, honoring Retry-After.
// Transport errors are not retried, so a hung request costs one attempt.
func New() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = time.Second
	rc.RetryWaitMax = 30 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.CheckRetry = checkRetry
	rc.Backoff = retryablehttp.DefaultBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || resp == nil {
		return false, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("Retry-After") != "" {
		return true, nil
	}
	return false, nil
}

// ClassifyResponse converts a non-2xx response into the domain error for its
// status class. Success statuses yield nil.
func ClassifyResponse(method, endpoint string, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrAuth)
	case code == http.StatusForbidden:
		if resp.Header.Get("Retry-After") != "" {
			return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrRateLimited)
		}
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrAuth)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrNotFound)
	case code == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrConflict)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s %s: %w", method, endpoint, domain.ErrRateLimited)
	default:
		return &domain.ServerError{Method: method, Endpoint: endpoint, StatusCode: code, Body: string(body)}
	}
}
