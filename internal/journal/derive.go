// Package journal implements the trade journal core: derived-field
// computation and the save/list/delete/export operations over the store.
package journal

import (
	"math"

	"tradejournal/internal/models"
)

// breakevenBand is the absolute P&L band inside which a closed trade is
// classified as breakeven rather than a win or loss.
const breakevenBand = 0.01

// TradeInput is the strongly-typed user input for a trade save. Optional
// numeric fields are pointers; nil means "not filled in yet".
type TradeInput struct {
	ID              string // empty for a new trade, existing ID for an edit
	Symbol          string
	Side            *models.Side
	EntryPrice      *float64
	StopLoss        *float64
	TakeProfit      *float64
	PositionSize    *float64
	SetupID         string
	Tags            []string
	Mistakes        []string
	Psychology      models.Psychology
	OutcomeMode     models.OutcomeMode
	ManualExitPrice *float64
}

// Derive builds a TradeRecord from user input, computing every derived
// field. It is pure: missing inputs propagate as nil derived values, never
// as zero or NaN, and a zero stop distance yields an undefined R:R rather
// than an error.
func Derive(in TradeInput) models.TradeRecord {
	t := models.TradeRecord{
		ID:              in.ID,
		Symbol:          in.Symbol,
		Side:            copySide(in.Side),
		EntryPrice:      copyFloat(in.EntryPrice),
		StopLoss:        copyFloat(in.StopLoss),
		TakeProfit:      copyFloat(in.TakeProfit),
		PositionSize:    copyFloat(in.PositionSize),
		SetupID:         in.SetupID,
		Tags:            copyStrings(in.Tags),
		Mistakes:        copyStrings(in.Mistakes),
		Psychology:      in.Psychology,
		OutcomeMode:     in.OutcomeMode,
		ManualExitPrice: copyFloat(in.ManualExitPrice),
	}

	// Infer side from price geometry the moment entry and stop are both
	// present: a stop below the entry implies a long.
	if t.Side == nil && t.EntryPrice != nil && t.StopLoss != nil {
		side := models.SideSell
		if *t.EntryPrice > *t.StopLoss {
			side = models.SideBuy
		}
		t.Side = &side
	}

	t.ExitPrice = exitPrice(&t)
	t.RiskRewardRatio = riskReward(&t)
	t.ProfitOrLoss, t.Status = outcome(&t)

	return t
}

// exitPrice resolves the effective exit price from the outcome mode.
func exitPrice(t *models.TradeRecord) *float64 {
	switch t.OutcomeMode {
	case models.OutcomeTakeProfit:
		return copyFloat(t.TakeProfit)
	case models.OutcomeStopLoss:
		return copyFloat(t.StopLoss)
	case models.OutcomeManualExit:
		return copyFloat(t.ManualExitPrice)
	}
	return nil
}

// riskReward computes |TP-entry| / |entry-SL|, undefined when the stop
// distance is zero or any leg is missing.
func riskReward(t *models.TradeRecord) *float64 {
	if t.EntryPrice == nil || t.StopLoss == nil || t.TakeProfit == nil {
		return nil
	}
	riskDist := math.Abs(*t.EntryPrice - *t.StopLoss)
	if riskDist == 0 {
		return nil
	}
	rr := math.Abs(*t.TakeProfit-*t.EntryPrice) / riskDist
	return &rr
}

// outcome computes the signed P&L and its win/loss classification. The two
// are jointly present or jointly absent: a trade missing any leg of the
// computation is open.
func outcome(t *models.TradeRecord) (*float64, *models.TradeStatus) {
	if t.ExitPrice == nil || t.EntryPrice == nil || t.PositionSize == nil || t.Side == nil {
		return nil, nil
	}

	pnl := (*t.ExitPrice - *t.EntryPrice) * t.Side.Sign() * *t.PositionSize * models.ContractMultiplier

	status := models.StatusBreakeven
	switch {
	case pnl > breakevenBand:
		status = models.StatusWin
	case pnl < -breakevenBand:
		status = models.StatusLoss
	}
	return &pnl, &status
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copySide(p *models.Side) *models.Side {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
