package models

import "time"

// ContractMultiplier is the fixed standard-lot contract size used for all
// P&L scaling. This is a documented simplification: it is not asset-aware.
const ContractMultiplier = 100000.0

// TradeRecord is the canonical trade entity. Numeric inputs are pointers so
// that "not yet filled" is representable without sentinel values; derived
// fields are pointers for the same reason and are never user-set.
type TradeRecord struct {
	ID        string
	CreatedAt time.Time

	// User inputs.
	Symbol          string
	Side            *Side
	EntryPrice      *float64
	StopLoss        *float64
	TakeProfit      *float64
	PositionSize    *float64
	SetupID         string
	Tags            []string
	Mistakes        []string
	Psychology      Psychology
	OutcomeMode     OutcomeMode
	ManualExitPrice *float64

	// Derived fields, recomputed on every save.
	ExitPrice       *float64
	RiskRewardRatio *float64
	ProfitOrLoss    *float64
	Status          *TradeStatus
}

// IsClosed reports whether the trade has a defined outcome. Status and
// ProfitOrLoss are always jointly present or jointly absent.
func (t *TradeRecord) IsClosed() bool {
	return t.ProfitOrLoss != nil
}

// HasTag reports whether the trade carries the given tag.
func (t *TradeRecord) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}
