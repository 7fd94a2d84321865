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

var portalCmd = &cobra.Command{
	Use:   "portal",
	Short: "Portal ingestion commands",
}

var portalImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import orders from the portal listing",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, _ *orders.Service, ingestSvc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		retry, _ := cmd.Flags().GetBool("retry")

		var result ingest.Result
		var err error
		if retry {
			result, err = ingestSvc.RunWithRetry(ctx)
		} else {
			result, err = ingestSvc.Run(ctx)
		}
		if err != nil {
			return errs.Wrap(err, "import portal orders")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(),
			"import finished: pages=%d rows=%d created=%d updated=%d\n",
			result.PagesFetched, result.RowsSeen, result.Created, result.Updated); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

var portalPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch and normalize one portal page without writing",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, _ *orders.Service, ingestSvc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		page, _ := cmd.Flags().GetInt("page")
		scraped, err := ingestSvc.Preview(ctx, page)
		if err != nil {
			return errs.Wrap(err, "preview portal page")
		}

		out := cmd.OutOrStdout()
		for _, order := range scraped {
			due := "-"
			if order.DueAt != nil {
				due = order.DueAt.Format("2006-01-02 15:04")
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\tplaced=%s\tdue=%s\t%s\n",
				order.ExternalOrderID,
				order.OrderNumber,
				order.Priority,
				order.OrderPlacedAt.Format("2006-01-02 15:04"),
				due,
				order.Address,
			); err != nil {
				return errs.Wrap(err, "write preview output")
			}
		}
		if _, err := fmt.Fprintf(out, "%d rows\n", len(scraped)); err != nil {
			return errs.Wrap(err, "write preview output")
		}
		return nil
	}),
}

var portalLastRunCmd = &cobra.Command{
	Use:   "last-run",
	Short: "Show the summary of the most recent import run",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, _ *orders.Service, ingestSvc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		result, found, err := ingestSvc.LastRun(ctx)
		if err != nil {
			return errs.Wrap(err, "load last run summary")
		}
		if !found {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "no import run recorded")
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"last run: finished=%s pages=%d rows=%d created=%d updated=%d\n",
			result.FinishedAt, result.PagesFetched, result.RowsSeen, result.Created, result.Updated)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(portalCmd)
	portalCmd.AddCommand(portalImportCmd)
	portalCmd.AddCommand(portalPreviewCmd)
	portalCmd.AddCommand(portalLastRunCmd)

	portalImportCmd.Flags().Bool("retry", false, "Retry failed runs with the configured backoff")
	portalPreviewCmd.Flags().Int("page", 1, "Listing page to preview")
}
