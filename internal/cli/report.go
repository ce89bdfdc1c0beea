package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/pkg/utils"
)

// addReportCommands adds performance reporting commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Performance reports",
		Long:  "Summary statistics, equity curve, drawdown, and grouped breakdowns over closed trades.",
	}

	cmd.AddCommand(newReportSummaryCmd(app))
	cmd.AddCommand(newReportEquityCmd(app))
	cmd.AddCommand(newReportBreakdownCmd(app))

	rootCmd.AddCommand(cmd)
}

func newReportSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Aggregate performance statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trades, err := app.Journal.ListClosed(ctx)
			if err != nil {
				output.Error("Failed to load trades: %v", err)
				return err
			}

			summary := analytics.Summarize(trades)
			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Performance Summary")
			output.Printf("  Total trades:  %d\n", summary.TotalTrades)
			output.Printf("  Net profit:    %s\n", output.FormatPnL(summary.NetProfit))
			output.Printf("  Win rate:      %.1f%%\n", summary.WinRate)
			output.Printf("  Profit factor: %s\n", formatProfitFactor(summary.ProfitFactor))
			output.Printf("  Avg win:       %s\n", utils.FormatMoney(summary.AvgWin))
			output.Printf("  Avg loss:      %s\n", utils.FormatMoney(summary.AvgLoss))
			output.Printf("  Largest win:   %s\n", utils.FormatMoney(summary.LargestWin))
			output.Printf("  Largest loss:  %s\n", utils.FormatMoney(summary.LargestLoss))
			return nil
		},
	}
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf (no losing trades)"
	}
	return fmt.Sprintf("%.2f", pf)
}

func newReportEquityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "equity",
		Short: "Equity curve and maximum drawdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			trades, err := app.Journal.ListClosed(ctx)
			if err != nil {
				output.Error("Failed to load trades: %v", err)
				return err
			}

			curve := analytics.EquityCurve(trades, app.Config.Account.Balance)
			dd := analytics.MaxDrawdown(curve)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"curve":    curve,
					"drawdown": dd,
				})
			}

			if len(curve) == 0 {
				output.Info("No closed trades yet.")
				return nil
			}

			table := NewTable(output, "Time", "Equity")
			for _, pt := range curve {
				table.AddRow(utils.FormatTime(pt.Time), utils.FormatMoney(pt.Equity))
			}
			table.Render()

			output.Println()
			output.Printf("Max drawdown: %.2f%%", dd.Percent)
			if dd.Percent > 0 {
				output.Printf(" (peak %s, trough %s)", utils.FormatTime(dd.PeakTime), utils.FormatTime(dd.TroughTime))
			}
			output.Println()
			return nil
		},
	}
}

func newReportBreakdownCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Win rate and P&L grouped by an attribute",
		Long: `Group closed trades by an attribute and show per-group count, win
rate, and total P&L. Trades missing the attribute land in an "Unknown"
bucket; tag grouping counts a trade once per tag.`,
		Example: `  tradejournal report breakdown --by symbol
  tradejournal report breakdown --by tag`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			by, _ := cmd.Flags().GetString("by")
			keyFn, err := keyFuncFor(by)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			trades, err := app.Journal.ListClosed(ctx)
			if err != nil {
				output.Error("Failed to load trades: %v", err)
				return err
			}

			groups := analytics.SortGroups(analytics.GroupBy(trades, keyFn))
			if output.IsJSON() {
				return output.JSON(groups)
			}
			if len(groups) == 0 {
				output.Info("No closed trades yet.")
				return nil
			}

			table := NewTable(output, by, "Trades", "Win rate", "Total P&L")
			for _, g := range groups {
				table.AddRow(
					g.Key,
					fmt.Sprintf("%d", g.Count),
					fmt.Sprintf("%.1f%%", g.WinRate),
					output.FormatPnL(g.TotalPnL),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("by", "symbol", "grouping attribute: setup, symbol, tag, weekday, reason")
	return cmd
}

func keyFuncFor(by string) (analytics.KeyFunc, error) {
	switch by {
	case "setup":
		return analytics.BySetup, nil
	case "symbol":
		return analytics.BySymbol, nil
	case "tag":
		return analytics.ByTag, nil
	case "weekday":
		return analytics.ByWeekday, nil
	case "reason":
		return analytics.ByEntryReason, nil
	}
	return nil, fmt.Errorf("unknown grouping %q (want setup, symbol, tag, weekday, or reason)", by)
}
