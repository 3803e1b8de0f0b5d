package cmd

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	// Global flags
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:     "iqsync",
	Version: Version,
	Short:   "Synchronize source-control repositories into Sonatype IQ Server",
	Long: `A CLI tool that keeps a Sonatype IQ Server application inventory
consistent with the repositories of a source-control provider
(GitHub or Azure DevOps).

For every organization unit listed in the organizations file it:
- enumerates the repositories belonging to that unit
- creates the missing IQ applications without duplicating existing ones
- binds each application to its repository URL and default branch
- triggers a source-control scan at the configured stage`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if debug {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (default: search standard locations)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
