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

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage workflow participants",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a user with a workflow role",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		role, _ := cmd.Flags().GetString("role")
		user, err := svc.CreateUser(ctx, orders.CreateUserInput{
			Name: cmd.Flags().Arg(0),
			Role: role,
		})
		if err != nil {
			return errs.Wrap(err, "create user")
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "user #%d created: %s (%s)\n", user.UserID, user.Name, user.Role)
		return err
	}),
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, optionally by role",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		role, _ := cmd.Flags().GetString("role")
		users, err := svc.ListUsers(ctx, role)
		if err != nil {
			return errs.Wrap(err, "list users")
		}

		out := cmd.OutOrStdout()
		for _, user := range users {
			fmt.Fprintf(out, "#%d\t%s\t%s\n", user.UserID, user.Name, user.Role)
		}
		_, err = fmt.Fprintf(out, "%d users\n", len(users))
		return err
	}),
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)

	usersAddCmd.Flags().String("role", "", "Workflow role (drawer|checker|qa|manager)")
	usersListCmd.Flags().String("role", "", "Filter by role")
}
