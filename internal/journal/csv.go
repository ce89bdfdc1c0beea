package journal

import (
	"context"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// tradeRow is the flat CSV projection of a trade record. Undefined numeric
// fields render as empty cells, not zeros.
type tradeRow struct {
	ID              string   `csv:"id"`
	CreatedAt       string   `csv:"created_at"`
	Symbol          string   `csv:"symbol"`
	Side            string   `csv:"side"`
	EntryPrice      *float64 `csv:"entry_price"`
	StopLoss        *float64 `csv:"stop_loss"`
	TakeProfit      *float64 `csv:"take_profit"`
	PositionSize    *float64 `csv:"position_size"`
	ExitPrice       *float64 `csv:"exit_price"`
	RiskReward      *float64 `csv:"risk_reward"`
	ProfitOrLoss    *float64 `csv:"pnl"`
	Status          string   `csv:"status"`
	OutcomeMode     string   `csv:"outcome_mode"`
	SetupID         string   `csv:"setup_id"`
	Tags            string   `csv:"tags"`
	Mistakes        string   `csv:"mistakes"`
	EmotionBefore   string   `csv:"emotion_before"`
	EntryReason     string   `csv:"entry_reason"`
	EmotionAfter    string   `csv:"emotion_after"`
}

// ExportCSV writes all trades to w as CSV, newest last.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	trades, err := s.store.ListTrades(ctx, store.TradeFilter{})
	if err != nil {
		return err
	}

	rows := make([]*tradeRow, 0, len(trades))
	for i := range trades {
		rows = append(rows, newTradeRow(&trades[i]))
	}

	return gocsv.Marshal(rows, w)
}

func newTradeRow(t *models.TradeRecord) *tradeRow {
	row := &tradeRow{
		ID:            t.ID,
		CreatedAt:     t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Symbol:        t.Symbol,
		EntryPrice:    t.EntryPrice,
		StopLoss:      t.StopLoss,
		TakeProfit:    t.TakeProfit,
		PositionSize:  t.PositionSize,
		ExitPrice:     t.ExitPrice,
		RiskReward:    t.RiskRewardRatio,
		ProfitOrLoss:  t.ProfitOrLoss,
		OutcomeMode:   string(t.OutcomeMode),
		SetupID:       t.SetupID,
		Tags:          strings.Join(t.Tags, ";"),
		Mistakes:      strings.Join(t.Mistakes, ";"),
		EmotionBefore: string(t.Psychology.EmotionBefore),
		EntryReason:   string(t.Psychology.EntryReason),
		EmotionAfter:  string(t.Psychology.EmotionAfter),
	}
	if t.Side != nil {
		row.Side = string(*t.Side)
	}
	if t.Status != nil {
		row.Status = string(*t.Status)
	}
	return row
}
