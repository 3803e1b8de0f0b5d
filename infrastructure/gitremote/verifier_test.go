package gitremote_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hktseng/iqsync/infrastructure/gitremote"
)

const headCommit = "95dcfa3633004da0049d3d0fa03f80589cbcaf31"

// pktLine frames s as a git pkt-line.
func pktLine(s string) string {
	return fmt.Sprintf("%04x%s", len(s)+4, s)
}

func TestVerifier(t *testing.T) {
	t.Parallel()

	t.Run("should accept a remote that advertises refs", func(t *testing.T) {
		t.Parallel()

		// given
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/contoso/_git/billing/info/refs", r.URL.Path)
			require.Equal(t, "git-upload-pack", r.URL.Query().Get("service"))
			w.Header().Set("Content-Type", "application/x-git-upload-pack-advertisement")
			_, _ = fmt.Fprint(w, pktLine("# service=git-upload-pack\n"))
			_, _ = fmt.Fprint(w, "0000")
			_, _ = fmt.Fprint(w, pktLine(headCommit+" HEAD\x00symref=HEAD:refs/heads/main agent=git/2.43.0\n"))
			_, _ = fmt.Fprint(w, pktLine(headCommit+" refs/heads/main\n"))
			_, _ = fmt.Fprint(w, "0000")
		}))
		defer srv.Close()
		verifier := gitremote.New()

		// when
		err := verifier.Verify(context.Background(), srv.URL+"/contoso/_git/billing")

		// then
		require.NoError(t, err)
	})

	t.Run("should report a missing repository", func(t *testing.T) {
		t.Parallel()

		// given
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()
		verifier := gitremote.New()

		// when
		err := verifier.Verify(context.Background(), srv.URL+"/contoso/_git/gone")

		// then
		assert.Error(t, err)
	})
}
