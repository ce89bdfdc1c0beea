package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/internal/risk"
	"tradejournal/internal/store"
	"tradejournal/pkg/utils"
)

// addRiskCommands adds position-sizing commands.
func addRiskCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Position sizing",
	}

	cmd.AddCommand(newRiskSizeCmd(app))

	rootCmd.AddCommand(cmd)
}

func newRiskSizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "size",
		Short: "Compute position size and take-profit",
		Long: `Compute the position size and take-profit for a planned trade from
the configured account balance and risk strategy. Under AntiMartingale
the risk percent reflects the current consecutive-win streak, capped at
the configured maximum.`,
		Example: `  tradejournal risk size --entry 1.2000 --stop 1.1950 --rr 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			entry, _ := cmd.Flags().GetFloat64("entry")
			stop, _ := cmd.Flags().GetFloat64("stop")
			desiredRR, _ := cmd.Flags().GetFloat64("rr")
			sideFlag, _ := cmd.Flags().GetString("side")

			side := models.SideBuy
			switch {
			case sideFlag != "":
				side = models.Side(sideFlag)
			case entry < stop:
				side = models.SideSell
			}

			settings := app.Config.RiskSettings()

			// The win streak reads most-recent trades first.
			var history []models.TradeRecord
			if app.Journal != nil {
				trades, err := app.Journal.ListTrades(ctx, store.TradeFilter{})
				if err == nil {
					history = make([]models.TradeRecord, 0, len(trades))
					for i := len(trades) - 1; i >= 0; i-- {
						history = append(history, trades[i])
					}
				}
			}

			riskPct := risk.CurrentRiskPercent(history, settings)
			entryPlan, err := risk.SmartEntry(entry, stop, side, settings.AccountBalance, riskPct, desiredRR)
			if err != nil {
				// Not computable: show N/A rather than a wrong number.
				output.Warning("Position size: N/A (%v)", err)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(entryPlan)
			}

			output.Bold("Smart Entry (%s %s)", side, utils.FormatPrice(entry))
			output.Printf("  Risk percent:  %.2f%%\n", entryPlan.RiskPercent)
			output.Printf("  Risk amount:   %s\n", utils.FormatMoney(entryPlan.RiskAmount))
			output.Printf("  Position size: %s lots\n", fmt.Sprintf("%.2f", entryPlan.PositionSize))
			output.Printf("  Take profit:   %s\n", utils.FormatPrice(entryPlan.TakeProfit))
			return nil
		},
	}

	cmd.Flags().Float64("entry", 0, "entry price")
	cmd.Flags().Float64("stop", 0, "stop-loss price")
	cmd.Flags().Float64("rr", 2, "desired risk-reward ratio")
	cmd.Flags().String("side", "", "Buy or Sell (inferred from prices when omitted)")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("stop")

	return cmd
}
