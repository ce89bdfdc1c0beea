package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/pkg/utils"
)

// addAlertCommands adds alert management commands.
func addAlertCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Price and news alerts",
		Long:  "Create, list, and delete alerts, and run the monitoring loop.",
	}

	cmd.AddCommand(newAlertsPriceCmd(app))
	cmd.AddCommand(newAlertsNewsCmd(app))
	cmd.AddCommand(newAlertsListCmd(app))
	cmd.AddCommand(newAlertsDeleteCmd(app))
	cmd.AddCommand(newAlertsEventsCmd(app))
	cmd.AddCommand(newAlertsWatchCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAlertsPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <symbol>",
		Short: "Create a price alert",
		Example: `  tradejournal alerts price EURUSD --above 1.2100
  tradejournal alerts price EURUSD --below 1.1900`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			condition := models.CrossesAbove
			target, _ := cmd.Flags().GetFloat64("above")
			if cmd.Flags().Changed("below") {
				condition = models.CrossesBelow
				target, _ = cmd.Flags().GetFloat64("below")
			}

			alert, err := app.Engine.CreatePriceAlert(ctx, args[0], condition, target)
			if err != nil {
				output.Error("Failed to create alert: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}
			output.Success("Alert %s: %s %s %s", alert.ID, alert.Symbol, alert.Condition, utils.FormatPrice(alert.TargetPrice))
			return nil
		},
	}

	cmd.Flags().Float64("above", 0, "trigger when price crosses above this level")
	cmd.Flags().Float64("below", 0, "trigger when price crosses below this level")
	cmd.MarkFlagsOneRequired("above", "below")
	cmd.MarkFlagsMutuallyExclusive("above", "below")
	return cmd
}

func newAlertsNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news <event-id>",
		Short: "Create a pre-event news alert",
		Long: `Create an alert that fires once, a configurable number of minutes
before a calendar event. Use "alerts events" to list event IDs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			before, _ := cmd.Flags().GetInt("before")

			events, err := app.Engine.UpcomingEvents(ctx)
			if err != nil {
				output.Error("Failed to read calendar: %v", err)
				return err
			}
			var event *models.CalendarEvent
			for i := range events {
				if events[i].ID == args[0] {
					event = &events[i]
					break
				}
			}
			if event == nil {
				output.Error("No upcoming event with ID %s.", args[0])
				return nil
			}

			alert, err := app.Engine.CreateNewsAlert(ctx, *event, before)
			if err != nil {
				output.Error("Failed to create alert: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(alert)
			}
			output.Success("Alert %s: %q, %d min before %s", alert.ID, alert.NewsTitle, before, utils.FormatTime(alert.EventTime))
			return nil
		},
	}

	cmd.Flags().Int("before", 5, "minutes before the event to fire")
	return cmd
}

func newAlertsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			var status *models.AlertStatus
			if statusFlag, _ := cmd.Flags().GetString("status"); statusFlag != "" {
				s := models.AlertStatus(statusFlag)
				status = &s
			}

			alerts, err := app.Engine.ListAlerts(ctx, status)
			if err != nil {
				output.Error("Failed to list alerts: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(alerts)
			}
			if len(alerts) == 0 {
				output.Info("No alerts.")
				return nil
			}

			table := NewTable(output, "ID", "Kind", "Detail", "Status", "Created")
			for _, a := range alerts {
				detail := ""
				switch a.Kind {
				case models.AlertKindPrice:
					detail = a.Symbol + " " + string(a.Condition) + " " + utils.FormatPrice(a.TargetPrice)
				case models.AlertKindNews:
					detail = utils.TruncateString(a.NewsTitle, 30) + " @ " + utils.FormatTime(a.EventTime)
				}
				table.AddRow(
					utils.TruncateString(a.ID, 10),
					string(a.Kind),
					detail,
					string(a.Status),
					utils.FormatTime(a.CreatedAt),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("status", "", "filter by status: active, triggered")
	return cmd
}

func newAlertsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <alert-id>",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := app.Engine.DeleteAlert(ctx, args[0]); err != nil {
				output.Error("Failed to delete alert: %v", err)
				return err
			}
			output.Success("Alert %s deleted.", args[0])
			return nil
		},
	}
}

func newAlertsEventsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List upcoming calendar events",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			events, err := app.Engine.UpcomingEvents(ctx)
			if err != nil {
				output.Error("Failed to read calendar: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(events)
			}
			if len(events) == 0 {
				output.Info("No upcoming events.")
				return nil
			}

			table := NewTable(output, "ID", "Title", "Scheduled")
			for _, ev := range events {
				table.AddRow(ev.ID, utils.TruncateString(ev.Title, 40), utils.FormatTime(ev.ScheduledTime))
			}
			table.Render()
			return nil
		},
	}
}

func newAlertsWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the alert monitoring loop",
		Long: `Run the alert polling loop until interrupted. Each tick scans all
active alerts against the price and calendar feeds; triggered alerts
fire exactly once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Engine == nil {
				output.Error("Store not initialized.")
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			output.Info("Watching alerts (Ctrl-C to stop)...")
			return app.Engine.Run(ctx)
		},
	}
}
