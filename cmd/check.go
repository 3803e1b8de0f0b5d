package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials and configuration against both servers",
	Long: `Probe the IQ Server and the source-control provider with the
configured credentials, then cross-check every organization unit
against the organizations known to the IQ Server.

Run it before scheduling the sync: a non-zero exit means the sync
would abort or silently skip units.`,
	RunE: runCheck,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	if err := container.Invoke(func(cfg *config.Config) error {
		return config.ValidateSync(cfg)
	}); err != nil {
		return err
	}

	return container.Invoke(func(
		units []config.Organization,
		svc *application.CheckService,
	) error {
		if err := svc.Run(ctx, units); err != nil {
			return err
		}
		fmt.Println("✅ All checks passed.")
		return nil
	})
}
