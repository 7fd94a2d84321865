/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"draftdesk/internal/bootstrap"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
	"draftdesk/internal/usecase/ingest"
	"draftdesk/internal/usecase/orders"
)

// initDbCmd represents the init-db command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize database schema and seed checklist templates",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, ordersSvc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		logging.Info(ctx, "start init-db")

		if err := app.InitSchema(ctx); err != nil {
			logging.Error(ctx, "initialize schema failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "initialize schema")
		}

		seeded := 0
		profile, err := orders.LoadChecklistProfile(app.Config.Checklists.File)
		if err != nil {
			logging.Warn(ctx, "checklist profile not loaded, skipping seed",
				slog.String("file", app.Config.Checklists.File),
				slog.Any("err", errs.Loggable(err)),
			)
		} else {
			seeded, err = ordersSvc.SeedChecklistTemplates(ctx, profile)
			if err != nil {
				return errs.Wrap(err, "seed checklist templates")
			}
		}

		logging.Info(ctx, "init-db finished",
			slog.String("database_dsn", app.Config.Database.DSN),
			slog.Int("templates_seeded", seeded),
		)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "database schema initialized: %s (%d checklist templates seeded)\n",
			app.Config.Database.DSN, seeded); err != nil {
			return errs.Wrap(err, "write init-db output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
