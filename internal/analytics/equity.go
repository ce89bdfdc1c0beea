// Package analytics aggregates closed trades into performance statistics.
// Every function takes an immutable snapshot of trade history and holds no
// state, so concurrent callers are safe.
package analytics

import (
	"time"

	"tradejournal/internal/models"
)

// EquityPoint is one sample of the cumulative account value.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// EquityCurve folds closed trades (ordered by date ascending) into a
// cumulative equity sequence. The curve starts with a synthetic point at
// the initial balance one minute before the first trade. Open trades are
// skipped. An empty history yields a nil curve.
func EquityCurve(trades []models.TradeRecord, initialBalance float64) []EquityPoint {
	closed := make([]models.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	if len(closed) == 0 {
		return nil
	}

	curve := make([]EquityPoint, 0, len(closed)+1)
	curve = append(curve, EquityPoint{
		Time:   closed[0].CreatedAt.Add(-time.Minute),
		Equity: initialBalance,
	})

	equity := initialBalance
	for _, t := range closed {
		equity += *t.ProfitOrLoss
		curve = append(curve, EquityPoint{Time: t.CreatedAt, Equity: equity})
	}
	return curve
}
