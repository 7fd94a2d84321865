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

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "QA stage commands",
}

var qaQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List the QA work queue",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		bucket, _ := cmd.Flags().GetString("bucket")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.RoleQueue(ctx, workflow.RoleQa, orders.QueueBucket(bucket), limit)
		if err != nil {
			return errs.Wrap(err, "list qa queue")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

var qaStartCmd = &cobra.Command{
	Use:   "start <order-id>",
	Short: "Mark QA review as started",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		if err := svc.StartQaReview(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID}); err != nil {
			return errs.Wrap(err, "start qa review")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "order #%d: qa review started\n", orderID)
		return err
	}),
}

var qaApproveCmd = &cobra.Command{
	Use:   "approve <order-id>",
	Short: "Approve the order as complete",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		result, err := svc.ApproveByQa(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			return errs.Wrap(err, "approve order")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

var qaRejectCmd = &cobra.Command{
	Use:   "reject <order-id>",
	Short: "Reject the order back to checker review",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")
		reason, _ := cmd.Flags().GetString("reason")

		result, err := svc.RejectByQa(ctx, orders.RejectInput{
			OrderID: orderID,
			ActorID: actorID,
			Reason:  reason,
		})
		if err != nil {
			return errs.Wrap(err, "reject order")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

func init() {
	rootCmd.AddCommand(qaCmd)
	qaCmd.AddCommand(qaQueueCmd)
	qaCmd.AddCommand(qaStartCmd)
	qaCmd.AddCommand(qaApproveCmd)
	qaCmd.AddCommand(qaRejectCmd)

	qaQueueCmd.Flags().String("bucket", "pending", "Queue bucket (pending|in_progress|completed|rejected)")
	qaQueueCmd.Flags().Int("limit", 50, "Maximum rows")
	qaStartCmd.Flags().Uint64("actor", 0, "Acting user id")
	qaApproveCmd.Flags().Uint64("actor", 0, "Acting user id")
	qaRejectCmd.Flags().Uint64("actor", 0, "Acting user id")
	qaRejectCmd.Flags().String("reason", "", "Rejection reason (required)")
}
