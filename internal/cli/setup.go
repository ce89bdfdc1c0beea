package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/pkg/id"
	"tradejournal/pkg/utils"
)

// addSetupCommands adds trading-setup commands.
func addSetupCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Trading setup management",
		Long:  "Manage reusable trade setups; at most one setup is active at a time.",
	}

	cmd.AddCommand(newSetupCreateCmd(app))
	cmd.AddCommand(newSetupListCmd(app))
	cmd.AddCommand(newSetupActivateCmd(app))
	cmd.AddCommand(newSetupDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newSetupCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a trading setup",
		Example: `  tradejournal setup create "London breakout" --category breakout --check "HTF trend up" --check "News clear" --rr 2 --tags breakout,london`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			category, _ := cmd.Flags().GetString("category")
			checklist, _ := cmd.Flags().GetStringArray("check")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			mistakes, _ := cmd.Flags().GetStringSlice("mistakes")

			setup := models.TradingSetup{
				ID:              id.New(),
				Name:            args[0],
				Category:        category,
				Checklist:       checklist,
				DefaultRR:       floatFlag(cmd, "rr"),
				DefaultTags:     tags,
				DefaultMistakes: mistakes,
				CreatedAt:       time.Now().UTC(),
			}
			if err := app.Store.SaveSetup(ctx, &setup); err != nil {
				output.Error("Failed to save setup: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(setup)
			}
			output.Success("Setup %s created: %s", setup.ID, setup.Name)
			return nil
		},
	}

	cmd.Flags().String("category", "", "setup category")
	cmd.Flags().StringArray("check", nil, "checklist item (repeatable, ordered)")
	cmd.Flags().Float64("rr", 0, "default risk-reward ratio")
	cmd.Flags().StringSlice("tags", nil, "default tags")
	cmd.Flags().StringSlice("mistakes", nil, "default mistakes to watch for")
	return cmd
}

func newSetupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trading setups",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			setups, err := app.Store.ListSetups(ctx)
			if err != nil {
				output.Error("Failed to list setups: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(setups)
			}
			if len(setups) == 0 {
				output.Info("No setups defined.")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Category", "R:R", "Checklist", "Active")
			for _, s := range setups {
				active := ""
				if s.IsActive {
					active = "yes"
				}
				table.AddRow(
					utils.TruncateString(s.ID, 10),
					s.Name,
					s.Category,
					utils.FormatRatio(s.DefaultRR),
					utils.TruncateString(strings.Join(s.Checklist, "; "), 40),
					active,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSetupActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <setup-id>",
		Short: "Activate a setup, deactivating all others",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := app.Store.ActivateSetup(ctx, args[0]); err != nil {
				output.Error("Failed to activate setup: %v", err)
				return err
			}
			output.Success("Setup %s is now active.", args[0])
			return nil
		},
	}
}

func newSetupDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <setup-id>",
		Short: "Delete a setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := app.Store.DeleteSetup(ctx, args[0]); err != nil {
				output.Error("Failed to delete setup: %v", err)
				return err
			}
			output.Success("Setup %s deleted.", args[0])
			return nil
		},
	}
}
