package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"draftdesk/internal/bootstrap"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/errs"
	"draftdesk/internal/usecase/ingest"
	"draftdesk/internal/usecase/orders"
)

var drawerCmd = &cobra.Command{
	Use:   "drawer",
	Short: "Drawer stage commands",
}

var drawerQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List the drawer work queue",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		bucket, _ := cmd.Flags().GetString("bucket")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.RoleQueue(ctx, workflow.RoleDrawer, orders.QueueBucket(bucket), limit)
		if err != nil {
			return errs.Wrap(err, "list drawer queue")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

var drawerStartCmd = &cobra.Command{
	Use:   "start <order-id>",
	Short: "Mark drawing as started",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		if err := svc.StartDrawing(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID}); err != nil {
			return errs.Wrap(err, "start drawing")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "order #%d: drawing started\n", orderID)
		return err
	}),
}

var drawerCompleteCmd = &cobra.Command{
	Use:   "complete <order-id>",
	Short: "Mark drawing as complete and send to checker",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		result, err := svc.CompleteDrawing(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			return errs.Wrap(err, "complete drawing")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

func init() {
	rootCmd.AddCommand(drawerCmd)
	drawerCmd.AddCommand(drawerQueueCmd)
	drawerCmd.AddCommand(drawerStartCmd)
	drawerCmd.AddCommand(drawerCompleteCmd)

	drawerQueueCmd.Flags().String("bucket", "pending", "Queue bucket (pending|in_progress|completed|rejected)")
	drawerQueueCmd.Flags().Int("limit", 50, "Maximum rows")
	drawerStartCmd.Flags().Uint64("actor", 0, "Acting user id")
	drawerCompleteCmd.Flags().Uint64("actor", 0, "Acting user id")
}
