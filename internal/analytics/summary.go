package analytics

import (
	"math"

	"tradejournal/internal/models"
)

// Summary holds the aggregate statistics of a set of closed trades.
type Summary struct {
	TotalTrades  int
	NetProfit    float64
	ProfitFactor float64
	WinRate      float64
	AvgWin       float64
	AvgLoss      float64
	LargestWin   float64
	LargestLoss  float64
}

// Summarize aggregates closed trades. ProfitFactor is +Inf when there are
// winning trades but no losses, and 0 when there are no wins. AvgWin and
// AvgLoss are 0, not NaN, when their class is empty.
func Summarize(trades []models.TradeRecord) Summary {
	var s Summary
	var winSum, lossSum float64
	var wins, losses int

	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		pnl := *t.ProfitOrLoss
		s.TotalTrades++
		s.NetProfit += pnl

		switch *t.Status {
		case models.StatusWin:
			wins++
			winSum += pnl
			if pnl > s.LargestWin {
				s.LargestWin = pnl
			}
		case models.StatusLoss:
			losses++
			lossSum += pnl
			if pnl < s.LargestLoss {
				s.LargestLoss = pnl
			}
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(wins) / float64(s.TotalTrades) * 100
	}
	if wins > 0 {
		s.AvgWin = winSum / float64(wins)
	}
	if losses > 0 {
		s.AvgLoss = lossSum / float64(losses)
	}

	switch {
	case winSum == 0:
		s.ProfitFactor = 0
	case lossSum == 0:
		s.ProfitFactor = math.Inf(1)
	default:
		s.ProfitFactor = winSum / math.Abs(lossSum)
	}

	return s
}
