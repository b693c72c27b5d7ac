// Package cmd implements the erp-admin CLI commands. The tool talks to the
// database directly so accounts can be managed before the API is up.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelous0/erp-textil/internal/config"
	"github.com/angelous0/erp-textil/internal/infra/postgres"
)

var version string

var rootCmd = &cobra.Command{
	Use:   "erp-admin",
	Short: "ERP textil account administration",
	Long: `erp-admin manages user accounts for the sample-development backend.

It connects to the database using the same DB_* environment variables as the
server, so it can bootstrap the first admin account before the API exists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(listUsersCmd)
	rootCmd.AddCommand(setRoleCmd)
	rootCmd.AddCommand(resetPasswordCmd)
}

// openDB connects using the server's configuration.
func openDB() (*postgres.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return db, nil
}
