package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	providerOverride string
	orgsFileOverride string
	verifyRemotes    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize repositories into IQ Server applications",
	Long: `Enumerate the repositories of every eligible organization unit,
create the missing IQ applications, bind each application to its
repository, and trigger a scan.

This is the main command intended to be used in a cronjob. Per-item
failures are logged and counted; the command still exits 0 so the
schedule keeps running, with the summary's failure count signalling
follow-up work.`,
	RunE: runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	syncCmd.Flags().StringVar(
		&providerOverride, "provider", "",
		"Override the configured provider type (github, azuredevops)",
	)
	syncCmd.Flags().StringVar(
		&orgsFileOverride, "orgs-file", "",
		"Override the organizations file path",
	)
	syncCmd.Flags().BoolVar(
		&verifyRemotes, "verify-remotes", false,
		"Probe each repository remote before binding it",
	)
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	// Validate before the container builds any client.
	if err := container.Invoke(func(cfg *config.Config) error {
		return config.ValidateSync(cfg)
	}); err != nil {
		return err
	}

	return container.Invoke(func(
		cfg *config.Config,
		units []config.Organization,
		svc *application.SyncService,
	) error {
		fmt.Printf("🔍 Syncing %d organizations via %s...\n\n", len(units), cfg.Provider.Type)

		summary, err := svc.Run(ctx, units, application.SyncOptions{
			DefaultBranch: cfg.DefaultBranch,
			StageID:       cfg.StageID,
			VerifyRemotes: cfg.VerifyRemotes || verifyRemotes,
		})
		if err != nil {
			return err
		}

		if summary.Failed > 0 {
			fmt.Printf("\n⚠️  Sync finished with failures: %s\n", summary)
			return nil
		}
		fmt.Printf("\n✅ Sync complete: %s\n", summary)
		return nil
	})
}
