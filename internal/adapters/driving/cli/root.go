// Package cli provides the signin command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/signin/internal/logger"
)

// version is set at build time via -ldflags "-X .../cli.version=...".
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "signin",
	Short: "Google sign-in front end",
	Long: `signin serves a small web front end that logs users in with their
Google account and shows the profile the provider returns.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}
