// Package gitremote checks repository reachability over the git smart
// HTTP protocol without cloning anything.
package gitremote

import (
	"context"
	"fmt"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/hktseng/iqsync/domain"
)

// Verifier confirms a remote advertises refs before its repository is
// bound to an application. Equivalent to git ls-remote.
type Verifier struct{}

var _ domain.RemoteVerifier = (*Verifier)(nil)

func New() *Verifier { return &Verifier{} }

// Verify lists the advertised references of the remote at authURL.
// Credentials are expected to be embedded in the URL, so no separate
// auth method is configured.
func (v *Verifier) Verify(ctx context.Context, authURL string) error {
	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{authURL},
	})
	if _, err := remote.ListContext(ctx, &git.ListOptions{}); err != nil {
		return fmt.Errorf("failed to list remote refs: %w", err)
	}

	return nil
}
