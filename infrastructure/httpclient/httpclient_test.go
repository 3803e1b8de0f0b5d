package httpclient_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hktseng/iqsync/domain"
	"github.com/hktseng/iqsync/infrastructure/httpclient"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("should retry a rate-limited request exactly once", func(t *testing.T) {
		t.Parallel()

		// given
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			if attempts == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := httpclient.New()

		// when
		resp, err := client.Get(srv.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, attempts)
	})

	t.Run("should give up after the second rate-limited response", func(t *testing.T) {
		t.Parallel()

		// given
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := httpclient.New()

		// when
		resp, err := client.Get(srv.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "the last response is handed back for classification")
		assert.Equal(t, 2, attempts)
	})

	t.Run("should not retry a plain server error", func(t *testing.T) {
		t.Parallel()

		// given
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := httpclient.New()

		// when
		resp, err := client.Get(srv.URL)

		// then
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 1, attempts)
	})
}

func TestClassifyResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		code       int
		retryAfter string
		want       error
	}{
		{name: "200 is success", code: http.StatusOK},
		{name: "201 is success", code: http.StatusCreated},
		{name: "204 is success", code: http.StatusNoContent},
		{name: "401 is an auth failure", code: http.StatusUnauthorized, want: domain.ErrAuth},
		{name: "403 without Retry-After is an auth failure", code: http.StatusForbidden, want: domain.ErrAuth},
		{name: "403 with Retry-After is throttling", code: http.StatusForbidden, retryAfter: "30", want: domain.ErrRateLimited},
		{name: "404 is not found", code: http.StatusNotFound, want: domain.ErrNotFound},
		{name: "409 is a conflict", code: http.StatusConflict, want: domain.ErrConflict},
		{name: "429 is throttling", code: http.StatusTooManyRequests, want: domain.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			header := http.Header{}
			if tt.retryAfter != "" {
				header.Set("Retry-After", tt.retryAfter)
			}
			resp := &http.Response{StatusCode: tt.code, Header: header}

			// when
			err := httpclient.ClassifyResponse(http.MethodGet, "/api/v2/applications", resp, nil)

			// then
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("should wrap anything else as a server error with context", func(t *testing.T) {
		t.Parallel()

		// given
		resp := &http.Response{StatusCode: http.StatusInternalServerError, Header: http.Header{}}

		// when
		err := httpclient.ClassifyResponse(http.MethodPost, "/api/v2/applications", resp, []byte("boom"))

		// then
		var serverErr *domain.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.MethodPost, serverErr.Method)
		assert.Equal(t, "/api/v2/applications", serverErr.Endpoint)
		assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
		assert.Equal(t, "boom", serverErr.Body)
	})
}
