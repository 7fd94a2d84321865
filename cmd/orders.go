package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"draftdesk/internal/bootstrap"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/errs"
	"draftdesk/internal/ports"
	"draftdesk/internal/usecase/ingest"
	"draftdesk/internal/usecase/orders"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage and inspect drafting orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders with optional filters",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := ports.OrderFilter{Priority: priority, Search: search, Limit: limit}
		if status != "" {
			filter.Statuses = []string{status}
		}

		items, err := svc.ListOrders(ctx, filter)
		if err != nil {
			return errs.Wrap(err, "list orders")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order with its workflow history",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		detail, err := svc.GetOrderDetail(ctx, orderID)
		if err != nil {
			return errs.Wrap(err, "load order detail")
		}

		out := cmd.OutOrStdout()
		order := detail.Order
		fmt.Fprintf(out, "Order #%d %s\n", order.OrderID, order.OrderNumber)
		fmt.Fprintf(out, "  status=%s priority=%s source=%s\n", order.Status, order.Priority, order.Source)
		fmt.Fprintf(out, "  address=%s\n", order.Address)
		fmt.Fprintf(out, "  due=%s placed=%s\n", strOr(order.DueAt, "-"), strOr(order.OrderPlacedAt, "-"))

		if len(detail.Assignments) > 0 {
			fmt.Fprintln(out, "Assignments:")
			for _, a := range detail.Assignments {
				current := ""
				if a.IsCurrent {
					current = " (current)"
				}
				fmt.Fprintf(out, "  user=%d role=%s assigned=%s%s\n", a.UserID, a.Role, a.AssignedAt, current)
			}
		}
		if len(detail.Reviews) > 0 {
			fmt.Fprintln(out, "Reviews:")
			for _, r := range detail.Reviews {
				verdict := "rejected"
				if r.Approved {
					verdict = "approved"
				}
				fmt.Fprintf(out, "  %s %s by user %d: %s\n", r.Role, verdict, r.ReviewerID, r.Comment)
			}
		}
		if len(detail.Issues) > 0 {
			fmt.Fprintln(out, "Issues:")
			for _, issue := range detail.Issues {
				fmt.Fprintf(out, "  [%s] %s\n", issue.Severity, issue.Description)
			}
		}
		if detail.Checklist.Total > 0 {
			fmt.Fprintf(out, "Checklist: %d/%d checked\n", detail.Checklist.Checked, detail.Checklist.Total)
			for _, item := range detail.Checklist.Items {
				mark := " "
				if item.Checked {
					mark = "x"
				}
				fmt.Fprintf(out, "  [%s] #%d %s\n", mark, item.ItemID, item.Title)
			}
		}
		if len(detail.StatusLogs) > 0 {
			fmt.Fprintln(out, "History:")
			for _, log := range detail.StatusLogs {
				fmt.Fprintf(out, "  %s %s -> %s %s\n", log.CreatedAt, strOr(log.FromStatus, "new"), log.ToStatus, log.Note)
			}
		}
		return nil
	}),
}

var ordersAssignCmd = &cobra.Command{
	Use:   "assign <order-id> <drawer-id>",
	Short: "Assign a drawer to an order",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		drawerID, err := parseID(cmd, 1)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		result, err := svc.AssignDrawer(ctx, orders.AssignDrawerInput{
			OrderID:  orderID,
			DrawerID: drawerID,
			ActorID:  actorID,
		})
		if err != nil {
			return errs.Wrap(err, "assign drawer")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

var ordersRejectCmd = &cobra.Command{
	Use:   "reject <order-id>",
	Short: "Reject an order out of the workflow (manager)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		actorID, _ := cmd.Flags().GetUint64("actor")

		result, err := svc.RejectByManager(ctx, orders.StageActionInput{OrderID: orderID, ActorID: actorID})
		if err != nil {
			return errs.Wrap(err, "reject order")
		}
		return printTransition(cmd.OutOrStdout(), result)
	}),
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create <order-number>",
	Short: "Create an order manually",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		address, _ := cmd.Flags().GetString("address")
		priority, _ := cmd.Flags().GetString("priority")
		instruction, _ := cmd.Flags().GetString("instruction")

		order, err := svc.CreateManualOrder(ctx, orders.CreateManualOrderInput{
			OrderNumber: cmd.Flags().Arg(0),
			Address:     address,
			Priority:    priority,
			Instruction: instruction,
		})
		if err != nil {
			return errs.Wrap(err, "create order")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "order #%d created: %s\n", order.OrderID, order.OrderNumber)
		return err
	}),
}

var ordersReviewCmd = &cobra.Command{
	Use:   "review <order-id>",
	Short: "File a free-form review against an order in a review stage",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		reviewerID, _ := cmd.Flags().GetUint64("reviewer")
		approved, _ := cmd.Flags().GetBool("approve")
		comment, _ := cmd.Flags().GetString("comment")
		issueTexts, _ := cmd.Flags().GetStringArray("issue")
		severity, _ := cmd.Flags().GetString("severity")

		issues := make([]orders.IssueInput, 0, len(issueTexts))
		for _, text := range issueTexts {
			issues = append(issues, orders.IssueInput{Severity: severity, Description: text})
		}

		review, err := svc.SubmitReview(ctx, orders.SubmitReviewInput{
			OrderID:    orderID,
			ReviewerID: reviewerID,
			Approved:   approved,
			Comment:    comment,
			Issues:     issues,
		})
		if err != nil {
			return errs.Wrap(err, "submit review")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "review #%d recorded for order #%d\n", review.ReviewID, orderID)
		return err
	}),
}

var ordersIssueCmd = &cobra.Command{
	Use:   "issue <order-id> <description>",
	Short: "Report an issue against an open order",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		orderID, err := parseID(cmd, 0)
		if err != nil {
			return err
		}
		severity, _ := cmd.Flags().GetString("severity")

		issue, err := svc.ReportIssue(ctx, orderID, orders.IssueInput{
			Severity:    severity,
			Description: cmd.Flags().Arg(1),
		})
		if err != nil {
			return errs.Wrap(err, "report issue")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "issue #%d recorded for order #%d\n", issue.IssueID, orderID)
		return err
	}),
}

var ordersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show order counts per status and priority",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		stats, err := svc.GetStats(ctx)
		if err != nil {
			return errs.Wrap(err, "load stats")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "By status:")
		for _, row := range stats.ByStatus {
			fmt.Fprintf(out, "  %-20s %d\n", row.Status, row.Count)
		}
		fmt.Fprintln(out, "Open orders by priority:")
		for _, row := range stats.ByPriority {
			fmt.Fprintf(out, "  %-20s %d\n", row.Priority, row.Count)
		}
		return nil
	}),
}

var ordersUrgentCmd = &cobra.Command{
	Use:   "urgent",
	Short: "List urgent and high priority orders waiting in a role's stage",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		role, _ := cmd.Flags().GetString("role")
		limit, _ := cmd.Flags().GetInt("limit")

		parsed, err := workflow.ParseRole(role)
		if err != nil {
			return errs.Wrap(err, "parse role")
		}
		items, err := svc.HighPriority(ctx, parsed, limit)
		if err != nil {
			return errs.Wrap(err, "list high priority orders")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

var ordersOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List open orders past their due date",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		limit, _ := cmd.Flags().GetInt("limit")
		items, err := svc.Overdue(ctx, time.Now(), limit)
		if err != nil {
			return errs.Wrap(err, "list overdue orders")
		}
		return printOrders(cmd.OutOrStdout(), items)
	}),
}

func printOrders(out io.Writer, items []ports.Order) error {
	for _, order := range items {
		if _, err := fmt.Fprintf(out, "#%d\t%s\t%s\t%s\tdue=%s\t%s\n",
			order.OrderID, order.OrderNumber, order.Status, order.Priority,
			strOr(order.DueAt, "-"), order.Address); err != nil {
			return errs.Wrap(err, "write order list")
		}
	}
	_, err := fmt.Fprintf(out, "%d orders\n", len(items))
	return err
}

func printTransition(out io.Writer, result orders.TransitionResult) error {
	_, err := fmt.Fprintf(out, "order #%d: %s -> %s\n", result.OrderID, result.From, result.To)
	return err
}

func parseID(cmd *cobra.Command, index int) (uint64, error) {
	raw := cmd.Flags().Arg(index)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Wrapf(err, "parse id %q", raw)
	}
	return id, nil
}

func strOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersAssignCmd)
	ordersCmd.AddCommand(ordersRejectCmd)
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersReviewCmd)
	ordersCmd.AddCommand(ordersIssueCmd)
	ordersCmd.AddCommand(ordersStatsCmd)
	ordersCmd.AddCommand(ordersUrgentCmd)
	ordersCmd.AddCommand(ordersOverdueCmd)

	ordersListCmd.Flags().String("status", "", "Filter by status")
	ordersListCmd.Flags().String("priority", "", "Filter by priority (regular|high|urgent)")
	ordersListCmd.Flags().String("search", "", "Search order number or address")
	ordersListCmd.Flags().Int("limit", 50, "Maximum rows")

	ordersAssignCmd.Flags().Uint64("actor", 0, "Acting user id")
	ordersRejectCmd.Flags().Uint64("actor", 0, "Acting user id")

	ordersCreateCmd.Flags().String("address", "", "Property address")
	ordersCreateCmd.Flags().String("priority", "regular", "Priority (regular|high|urgent)")
	ordersCreateCmd.Flags().String("instruction", "", "Free-form instruction")

	ordersReviewCmd.Flags().Uint64("reviewer", 0, "Reviewer user id")
	ordersReviewCmd.Flags().Bool("approve", false, "Record the review as an approval")
	ordersReviewCmd.Flags().String("comment", "", "Review comment (required)")
	ordersReviewCmd.Flags().StringArray("issue", nil, "Issue description (repeatable)")
	ordersReviewCmd.Flags().String("severity", "", "Severity for supplied issues")

	ordersUrgentCmd.Flags().String("role", "drawer", "Role stage (drawer|checker|qa)")
	ordersUrgentCmd.Flags().Int("limit", 50, "Maximum rows")

	ordersIssueCmd.Flags().String("severity", "", "Issue severity (minor|major|critical|suggestion)")

	ordersOverdueCmd.Flags().Int("limit", 50, "Maximum rows")
}
