package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hktseng/iqsync/application"
	"github.com/hktseng/iqsync/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var assumeYes bool

//nolint:gochecknoglobals // required by cobra CLI pattern
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every IQ application of the configured organizations",
	Long: `Delete all applications under each eligible organization unit on
the IQ Server. This is irreversible: the applications and their scan
history go away.

The command asks for confirmation unless --yes is given. Re-running
after a partial failure simply deletes whatever is left.`,
	RunE: runCleanup,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	cleanupCmd.Flags().BoolVarP(
		&assumeYes, "yes", "y", false,
		"Skip the confirmation prompt",
	)
	cleanupCmd.Flags().StringVar(
		&orgsFileOverride, "orgs-file", "",
		"Override the organizations file path",
	)
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	container, err := buildContainer()
	if err != nil {
		return err
	}

	// Cleanup only talks to the IQ Server, so provider settings are
	// not validated here.
	if err := container.Invoke(func(cfg *config.Config) error {
		return config.ValidateCleanup(cfg)
	}); err != nil {
		return err
	}

	return container.Invoke(func(
		units []config.Organization,
		svc *application.CleanupService,
	) error {
		if !assumeYes && !confirmCleanup(cmd, units) {
			fmt.Println("Aborted.")
			return nil
		}

		fmt.Printf("🗑️  Deleting applications of %d organizations...\n\n", eligibleCount(units))

		summary, err := svc.Run(ctx, units)
		if err != nil {
			return err
		}

		if summary.Failed > 0 {
			fmt.Printf("\n⚠️  Cleanup finished with failures: %s\n", summary)
			return nil
		}
		fmt.Printf("\n✅ Cleanup complete: %s\n", summary)
		return nil
	})
}

// confirmCleanup asks the operator to type "yes" before anything is
// deleted. Reads from the command's stdin so tests can feed it.
func confirmCleanup(cmd *cobra.Command, units []config.Organization) bool {
	fmt.Printf(
		"About to delete ALL applications of %d organizations. Type 'yes' to continue: ",
		eligibleCount(units),
	)

	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(answer) == "yes"
}

func eligibleCount(units []config.Organization) int {
	eligible := 0
	for _, unit := range units {
		if unit.Eligible() {
			eligible++
		}
	}
	return eligible
}
