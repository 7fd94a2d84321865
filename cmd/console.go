package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"draftdesk/internal/bootstrap"
	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
	"draftdesk/internal/usecase/ingest"
	"draftdesk/internal/usecase/orders"
	"draftdesk/internal/usecase/ordersconsole"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive order queue console",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *orders.Service, _ *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		status, _ := cmd.Flags().GetString("status")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := ordersconsole.NewModel(ctx, svc, ordersconsole.Options{
			StatusFilter:    status,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("status", "", "Initial status filter")
	consoleCmd.Flags().Duration("refresh-interval", 10*time.Second, "Auto refresh interval")
}
