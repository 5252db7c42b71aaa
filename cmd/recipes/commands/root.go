// Package commands implements the recipes command line: serving the API
// and managing the database schema.
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/recipe-catalog/internal/config"
	"github.com/deppfellow/recipe-catalog/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Recipe catalog API",
	Long: `Recipe catalog API: recipes with ingredients, photos, tags, reviews
and comments, stored in PostgreSQL.

Configuration is read from RECIPES_* environment variables (and .env).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// bootstrap loads configuration and builds the application logger.
func bootstrap() (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, zerolog.Logger{}, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, loggerService, log, nil
}
