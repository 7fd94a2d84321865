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

var checkerCmd = &cobra.Command{
	Use:   "checker",
	Short: "Checker stage commands",
}

var checkerQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List the checker work queue",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		bucket, _ := cmd.Flags().GetString("bucket")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.RoleQueue(ctx, workflow.RoleChecker, orders.QueueBucket(bucket), limit)
		if err != nil {
			return errs.Wrap(err, "list checker queue")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

var checkerStartCmd = &cobra.Command{
	Use:   "start <order-id>",
	Short: "Mark checker review as started",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		if err := svc.StartCheckerReview(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID}); err != nil {
			return errs.Wrap(err, "start checker review")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "order #%d: checker review started\n", orderID)
		return err
	}),
}

var checkerChecklistCmd = &cobra.Command{
	Use:   "checklist <order-id>",
	Short: "Show the order's checklist",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		status, err := svc.GetChecklistStatus(ctx, orderID)
		if err != nil {
			return errs.Wrap(err, "load checklist")
		}

		out := cmd.OutOrStdout()
		for _, item := range status.Items {
			mark := " "
			if item.Checked {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] #%d %s\n", mark, item.ItemID, item.Title)
		}
		_, err = fmt.Fprintf(out, "%d/%d checked\n", status.Checked, status.Total)
		return err
	}),
}

var checkerCheckCmd = &cobra.Command{
	Use:   "check <item-id>",
	Short: "Check or uncheck one checklist item",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		itemID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")
		uncheck, _ := cmd.Flags().GetBool("uncheck")

		if err := svc.ToggleChecklistItem(ctx, orders.ToggleChecklistItemInput{
			ItemID:  itemID,
			UserID:  actorID,
			Checked: !uncheck,
		}); err != nil {
			return errs.Wrap(err, "toggle checklist item")
		}
		state := "checked"
		if uncheck {
			state = "unchecked"
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "item #%d %s\n", itemID, state)
		return err
	}),
}

var checkerCompleteChecklistCmd = &cobra.Command{
	Use:   "complete-checklist <order-id>",
	Short: "Confirm every checklist item is checked",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		if err := svc.CompleteChecklist(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID}); err != nil {
			return errs.Wrap(err, "complete checklist")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "order #%d: checklist complete\n", orderID)
		return err
	}),
}

var checkerApproveCmd = &cobra.Command{
	Use:   "approve <order-id>",
	Short: "Approve the order and send it to QA",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		result, err := svc.ApproveByChecker(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			return errs.Wrap(err, "approve order")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

var checkerRejectCmd = &cobra.Command{
	Use:   "reject <order-id>",
	Short: "Reject the order back to the drawer",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")
		reason, _ := cmd.Flags().GetString("reason")
		issueTexts, _ := cmd.Flags().GetStringArray("issue")
		severity, _ := cmd.Flags().GetString("severity")

		issues := make([]orders.IssueInput, 0, len(issueTexts))
		for _, text := range issueTexts {
			issues = append(issues, orders.IssueInput{Severity: severity, Description: text})
		}

		result, err := svc.RejectByChecker(ctx, orders.RejectInput{
			OrderID: orderID,
			ActorID: actorID,
			Reason:  reason,
			Issues:  issues,
		})
		if err != nil {
			return errs.Wrap(err, "reject order")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

func init() {
	rootCmd.AddCommand(checkerCmd)
	checkerCmd.AddCommand(checkerQueueCmd)
	checkerCmd.AddCommand(checkerStartCmd)
	checkerCmd.AddCommand(checkerChecklistCmd)
	checkerCmd.AddCommand(checkerCheckCmd)
	checkerCmd.AddCommand(checkerCompleteChecklistCmd)
	checkerCmd.AddCommand(checkerApproveCmd)
	checkerCmd.AddCommand(checkerRejectCmd)

	checkerQueueCmd.Flags().String("bucket", "pending", "Queue bucket (pending|in_progress|completed|rejected)")
	checkerQueueCmd.Flags().Int("limit", 50, "Maximum rows")
	checkerStartCmd.Flags().Uint64("actor", 0, "Acting user id")
	checkerCheckCmd.Flags().Uint64("actor", 0, "Acting user id")
	checkerCheckCmd.Flags().Bool("uncheck", false, "Uncheck instead of check")
	checkerCompleteChecklistCmd.Flags().Uint64("actor", 0, "Acting user id")
	checkerApproveCmd.Flags().Uint64("actor", 0, "Acting user id")
	checkerRejectCmd.Flags().Uint64("actor", 0, "Acting user id")
	checkerRejectCmd.Flags().String("reason", "", "Rejection reason (required)")
	checkerRejectCmd.Flags().StringArray("issue", nil, "Issue description (repeatable)")
	checkerRejectCmd.Flags().String("severity", "", "Severity for supplied issues (minor|major|critical)")
}
