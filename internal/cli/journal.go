package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/journal"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/pkg/utils"
)

const commandTimeout = 30 * time.Second

// addJournalCommands adds trade journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal management",
		Long:  "Record, list, edit, and export journal trades.",
	}

	cmd.AddCommand(newJournalSaveCmd(app))
	cmd.AddCommand(newJournalListCmd(app))
	cmd.AddCommand(newJournalDeleteCmd(app))
	cmd.AddCommand(newJournalExportCmd(app))

	rootCmd.AddCommand(cmd)
}

// floatFlag returns the flag value as a pointer, nil when not set, so
// missing inputs stay undefined instead of becoming zeros.
func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func newJournalSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a trade (new or edit)",
		Long: `Save a trade record. All derived fields (exit price, R:R, P&L,
win/loss status) are recomputed from the inputs on every save.

Pass --id to edit an existing trade; identity and creation time are kept.`,
		Example: `  tradejournal journal save --symbol EURUSD --entry 1.2000 --stop 1.1950 --tp 1.2100 --size 0.2 --outcome TakeProfit
  tradejournal journal save --id 01HV3... --symbol EURUSD --entry 1.2000 --stop 1.1950 --outcome ManualExit --exit-price 1.2040 --size 0.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			tradeID, _ := cmd.Flags().GetString("id")
			sideFlag, _ := cmd.Flags().GetString("side")
			outcome, _ := cmd.Flags().GetString("outcome")
			setupID, _ := cmd.Flags().GetString("setup")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			mistakes, _ := cmd.Flags().GetStringSlice("mistakes")
			emotionBefore, _ := cmd.Flags().GetString("emotion-before")
			entryReason, _ := cmd.Flags().GetString("reason")
			emotionAfter, _ := cmd.Flags().GetString("emotion-after")

			input := journal.TradeInput{
				ID:              tradeID,
				Symbol:          symbol,
				EntryPrice:      floatFlag(cmd, "entry"),
				StopLoss:        floatFlag(cmd, "stop"),
				TakeProfit:      floatFlag(cmd, "tp"),
				PositionSize:    floatFlag(cmd, "size"),
				SetupID:         setupID,
				Tags:            tags,
				Mistakes:        mistakes,
				OutcomeMode:     models.OutcomeMode(outcome),
				ManualExitPrice: floatFlag(cmd, "exit-price"),
				Psychology: models.Psychology{
					EmotionBefore: models.Emotion(emotionBefore),
					EntryReason:   models.EntryReason(entryReason),
					EmotionAfter:  models.Emotion(emotionAfter),
				},
			}
			if sideFlag != "" {
				side := models.Side(sideFlag)
				input.Side = &side
			}

			trade, err := app.Journal.SaveTrade(ctx, input)
			if err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Success("Trade %s saved.", trade.ID)
			if trade.IsClosed() {
				output.Printf("  Status: %s  P&L: %s\n", string(*trade.Status), output.FormatPnL(*trade.ProfitOrLoss))
			} else {
				output.Dim("  Trade is open: no exit, entry, size or side yet.")
			}
			if trade.RiskRewardRatio != nil {
				output.Printf("  R:R: %s\n", utils.FormatRatio(trade.RiskRewardRatio))
			}
			return nil
		},
	}

	cmd.Flags().String("id", "", "trade ID to edit (empty creates a new trade)")
	cmd.Flags().String("symbol", "", "instrument symbol")
	cmd.Flags().String("side", "", "Buy or Sell (inferred from entry/stop when omitted)")
	cmd.Flags().Float64("entry", 0, "entry price")
	cmd.Flags().Float64("stop", 0, "stop-loss price")
	cmd.Flags().Float64("tp", 0, "take-profit price")
	cmd.Flags().Float64("size", 0, "position size in lots")
	cmd.Flags().String("outcome", string(models.OutcomeTakeProfit), "outcome mode: TakeProfit, StopLoss, ManualExit")
	cmd.Flags().Float64("exit-price", 0, "manual exit price (with --outcome ManualExit)")
	cmd.Flags().String("setup", "", "trading setup ID")
	cmd.Flags().StringSlice("tags", nil, "free-form tags")
	cmd.Flags().StringSlice("mistakes", nil, "named mistakes")
	cmd.Flags().String("emotion-before", "", "emotion before entry")
	cmd.Flags().String("reason", "", "entry reason")
	cmd.Flags().String("emotion-after", "", "emotion after exit")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

func newJournalListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			limit, _ := cmd.Flags().GetInt("limit")

			trades, err := app.Journal.ListTrades(ctx, store.TradeFilter{Symbol: symbol, Limit: limit})
			if err != nil {
				output.Error("Failed to list trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Symbol", "Side", "Entry", "Exit", "R:R", "P&L", "Status")
			for _, t := range trades {
				side, entry, exit, pnl, status := "-", "-", "-", "-", "open"
				if t.Side != nil {
					side = string(*t.Side)
				}
				if t.EntryPrice != nil {
					entry = utils.FormatPrice(*t.EntryPrice)
				}
				if t.ExitPrice != nil {
					exit = utils.FormatPrice(*t.ExitPrice)
				}
				if t.ProfitOrLoss != nil {
					pnl = output.FormatPnL(*t.ProfitOrLoss)
					status = string(*t.Status)
				}
				table.AddRow(
					utils.TruncateString(t.ID, 10),
					utils.FormatDate(t.CreatedAt),
					t.Symbol,
					side,
					entry,
					exit,
					utils.FormatRatio(t.RiskRewardRatio),
					pnl,
					status,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().Int("limit", 0, "maximum rows (0 = all)")
	return cmd
}

func newJournalDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if err := app.Journal.DeleteTrade(ctx, args[0]); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			output.Success("Trade %s deleted.", args[0])
			return nil
		},
	}
}

func newJournalExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export trades to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			if len(args) == 0 {
				return app.Journal.ExportCSV(ctx, cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				output.Error("Failed to create file: %v", err)
				return err
			}
			defer f.Close()

			if err := app.Journal.ExportCSV(ctx, f); err != nil {
				output.Error("Export failed: %v", err)
				return err
			}
			output.Success("Trades exported to %s.", args[0])
			return nil
		},
	}
	return cmd
}
