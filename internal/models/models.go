// Package models provides domain models for the trading journal.
package models

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Sign returns +1 for Buy and -1 for Sell.
func (s Side) Sign() float64 {
	if s == SideSell {
		return -1
	}
	return 1
}

// OutcomeMode describes how a trade was (or will be) closed.
type OutcomeMode string

const (
	OutcomeTakeProfit OutcomeMode = "TakeProfit"
	OutcomeStopLoss   OutcomeMode = "StopLoss"
	OutcomeManualExit OutcomeMode = "ManualExit"
)

// TradeStatus is the derived win/loss classification of a closed trade.
type TradeStatus string

const (
	StatusWin       TradeStatus = "Win"
	StatusLoss      TradeStatus = "Loss"
	StatusBreakeven TradeStatus = "Breakeven"
)

// Emotion represents a trader's emotional state around an entry or exit.
type Emotion string

const (
	EmotionCalm       Emotion = "Calm"
	EmotionConfident  Emotion = "Confident"
	EmotionFearful    Emotion = "Fearful"
	EmotionGreedy     Emotion = "Greedy"
	EmotionFrustrated Emotion = "Frustrated"
)

// EntryReason represents why a trade was taken.
type EntryReason string

const (
	ReasonPlanned  EntryReason = "Planned"
	ReasonSignal   EntryReason = "Signal"
	ReasonFOMO     EntryReason = "FOMO"
	ReasonRevenge  EntryReason = "Revenge"
	ReasonBoredom  EntryReason = "Boredom"
)

// Psychology captures the optional emotional sub-record of a trade.
type Psychology struct {
	EmotionBefore Emotion
	EntryReason   EntryReason
	EmotionAfter  Emotion
}
