package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"instapic-ticketing/internal/config"
	"instapic-ticketing/internal/database"
	"instapic-ticketing/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the ticket store schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (postgres only)",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version (postgres only)",
		RunE:  runMigrateVersion,
	})
	return cmd
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.NewWithWriter(cmd.ErrOrStderr())

	bunDB, err := database.Open(cmd.Context(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if err := database.Migrate(cmd.Context(), cfg.Database, bunDB, log); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return err
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	runner, err := database.NewMigrationRunner(config.Load().Database, logger.NewWithWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.MigrateDown(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "all migrations rolled back")
	return err
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	runner, err := database.NewMigrationRunner(config.Load().Database, logger.NewWithWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer runner.Close()

	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
	return err
}
