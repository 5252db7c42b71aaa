package commands

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/recipe-catalog/internal/database"
)

var migrateTarget int32

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Migrate the database schema to the latest version, or to --to.

Examples:
  recipes migrate           # Apply all pending migrations
  recipes migrate --to 0    # Roll back every migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, loggerService, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		return database.MigrateTo(cmd.Context(), &log, database.DSN(cfg.Database), migrateTarget)
	},
}

func init() {
	migrateCmd.Flags().Int32Var(&migrateTarget, "to", -1, "Target schema version (-1 for latest)")
}
