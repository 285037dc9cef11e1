// Command seed creates the default organization in a fresh database.
// It is safe to run on every deploy.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/db"
	"github.com/iMedia24/workplacify/internal/logger"
	"github.com/iMedia24/workplacify/internal/org"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "seed",
		Short:         "Create the default organization if none exists",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:     cfg.Env,
				Level:   cfg.LogLevel,
				Service: "workplacify-seed",
			})
			defer logger.Sync()

			return seed(cmd.Context(), cfg.DatabaseDriver, cfg.DatabaseDSN)
		},
	}
}

func seed(ctx context.Context, driver, dsn string) error {
	database, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warn("failed to close database", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	logger.Info("starting production seed", nil)

	o, created, err := org.Seed(ctx, org.NewSQLStore(database))
	if err != nil {
		return err
	}

	if created {
		logger.Info("production seed completed", map[string]any{
			"organization": o.Name,
			"invite_code":  o.InviteCode,
		})
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error("seed failed", map[string]any{
			"error": err.Error(),
		})
		fmt.Fprintln(os.Stderr, "Error during seeding:", err)
		os.Exit(1)
	}
}
