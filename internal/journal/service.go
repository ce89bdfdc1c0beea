package journal

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
	"tradejournal/pkg/id"
)

// Service exposes the journal mutation and query operations. Mutations
// return the updated record; there is no implicit event bus, callers
// re-query when they need fresh aggregates.
type Service struct {
	store  store.DataStore
	logger zerolog.Logger
}

// NewService creates a journal service over the given store.
func NewService(dataStore store.DataStore, logger zerolog.Logger) *Service {
	return &Service{
		store:  dataStore,
		logger: logger.With().Str("component", "journal").Logger(),
	}
}

// SaveTrade derives all computed fields and persists the trade. A save with
// an existing ID is an edit: identity and creation time are preserved and
// every derived field is recomputed from the new input.
func (s *Service) SaveTrade(ctx context.Context, in TradeInput) (models.TradeRecord, error) {
	trade := Derive(in)

	if trade.ID == "" {
		trade.ID = id.New()
		trade.CreatedAt = time.Now().UTC()
	} else {
		existing, err := s.store.GetTrade(ctx, trade.ID)
		switch {
		case err == nil:
			trade.CreatedAt = existing.CreatedAt
		case apperrors.Is(err, apperrors.ErrNotFound):
			trade.CreatedAt = time.Now().UTC()
		default:
			return models.TradeRecord{}, err
		}
	}

	if err := s.store.SaveTrade(ctx, &trade); err != nil {
		return models.TradeRecord{}, err
	}

	event := s.logger.Info().
		Str("trade_id", trade.ID).
		Str("symbol", trade.Symbol)
	if trade.ProfitOrLoss != nil {
		event = event.Float64("pnl", *trade.ProfitOrLoss).Str("status", string(*trade.Status))
	}
	event.Msg("trade saved")

	return trade, nil
}

// GetTrade fetches a single trade.
func (s *Service) GetTrade(ctx context.Context, tradeID string) (*models.TradeRecord, error) {
	return s.store.GetTrade(ctx, tradeID)
}

// DeleteTrade removes a trade. Deletion has no cascading effects.
func (s *Service) DeleteTrade(ctx context.Context, tradeID string) error {
	if err := s.store.DeleteTrade(ctx, tradeID); err != nil {
		return err
	}
	s.logger.Info().Str("trade_id", tradeID).Msg("trade deleted")
	return nil
}

// ListTrades returns trades in ascending creation order.
func (s *Service) ListTrades(ctx context.Context, filter store.TradeFilter) ([]models.TradeRecord, error) {
	return s.store.ListTrades(ctx, filter)
}

// ListClosed returns only trades with a defined outcome, in ascending
// creation order. This is the input shape the analytics layer expects.
func (s *Service) ListClosed(ctx context.Context) ([]models.TradeRecord, error) {
	trades, err := s.store.ListTrades(ctx, store.TradeFilter{})
	if err != nil {
		return nil, err
	}

	closed := trades[:0:0]
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	return closed, nil
}
