// Package risk computes win-streak-aware position sizing.
package risk

import (
	"math"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// Entry is the result of a smart-entry computation.
type Entry struct {
	PositionSize float64
	TakeProfit   float64
	RiskAmount   float64
	RiskPercent  float64
}

// CurrentRiskPercent returns the risk percent to apply to the next trade.
// history must be ordered most-recent-first. Under AntiMartingale the
// percent grows with the consecutive-win streak of closed trades; the
// streak stops at the first closed non-win, and the MaxRisk ceiling is
// applied as the last step.
func CurrentRiskPercent(history []models.TradeRecord, settings models.RiskSettings) float64 {
	if settings.Strategy != models.StrategyAntiMartingale {
		return settings.FixedPercent.Risk
	}

	am := settings.AntiMartingale
	streak := 0
	for i := range history {
		if !history[i].IsClosed() {
			continue
		}
		if *history[i].Status != models.StatusWin {
			break
		}
		streak++
	}

	risk := am.BaseRisk + float64(streak)*am.Increment
	return math.Min(risk, am.MaxRisk)
}

// SmartEntry computes the position size and take-profit for a planned
// trade. It fails with a NotComputableError when the stop distance is
// zero; it never returns NaN or infinite values.
func SmartEntry(entryPrice, stopLoss float64, side models.Side, accountBalance, riskPercent, desiredRR float64) (Entry, error) {
	riskDistance := math.Abs(entryPrice - stopLoss)
	if riskDistance == 0 {
		return Entry{}, apperrors.NewNotComputable("position size", apperrors.ErrZeroRiskDistance)
	}
	if accountBalance <= 0 {
		return Entry{}, apperrors.NewValidationError("accountBalance", accountBalance, "must be positive")
	}
	if riskPercent <= 0 {
		return Entry{}, apperrors.NewValidationError("riskPercent", riskPercent, "must be positive")
	}

	riskAmount := accountBalance * riskPercent / 100
	positionSize := riskAmount / (riskDistance * models.ContractMultiplier)

	takeProfit := entryPrice + riskDistance*desiredRR
	if side == models.SideSell {
		takeProfit = entryPrice - riskDistance*desiredRR
	}

	return Entry{
		PositionSize: positionSize,
		TakeProfit:   takeProfit,
		RiskAmount:   riskAmount,
		RiskPercent:  riskPercent,
	}, nil
}
