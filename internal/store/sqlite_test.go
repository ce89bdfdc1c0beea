package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fptr(v float64) *float64 { return &v }

func sampleTrade(id string) *models.TradeRecord {
	side := models.SideBuy
	status := models.StatusWin
	return &models.TradeRecord{
		ID:              id,
		Symbol:          "EURUSD",
		Side:            &side,
		EntryPrice:      fptr(1.2000),
		StopLoss:        fptr(1.1950),
		TakeProfit:      fptr(1.2100),
		PositionSize:    fptr(0.2),
		SetupID:         "breakout",
		Tags:            []string{"news", "asia"},
		Mistakes:        []string{"late entry"},
		Psychology:      models.Psychology{EmotionBefore: models.EmotionCalm, EntryReason: models.ReasonPlanned},
		OutcomeMode:     models.OutcomeTakeProfit,
		ExitPrice:       fptr(1.2100),
		RiskRewardRatio: fptr(2.0),
		ProfitOrLoss:    fptr(200),
		Status:          &status,
		CreatedAt:       time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
	}
}

func TestTradeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleTrade("t1")
	require.NoError(t, s.SaveTrade(ctx, want))

	got, err := s.GetTrade(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, want.Symbol, got.Symbol)
	require.NotNil(t, got.Side)
	assert.Equal(t, models.SideBuy, *got.Side)
	assert.InDelta(t, 1.2000, *got.EntryPrice, 1e-9)
	assert.InDelta(t, 200.0, *got.ProfitOrLoss, 1e-9)
	assert.Equal(t, []string{"news", "asia"}, got.Tags)
	assert.Equal(t, []string{"late entry"}, got.Mistakes)
	assert.Equal(t, models.EmotionCalm, got.Psychology.EmotionBefore)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusWin, *got.Status)
}

func TestTradeRoundTripNilFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	open := &models.TradeRecord{
		ID:        "t2",
		Symbol:    "EURUSD",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveTrade(ctx, open))

	got, err := s.GetTrade(ctx, "t2")
	require.NoError(t, err)
	assert.Nil(t, got.Side)
	assert.Nil(t, got.EntryPrice)
	assert.Nil(t, got.ProfitOrLoss)
	assert.Nil(t, got.Status)
	assert.False(t, got.IsClosed())
}

func TestTradeResaveReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trade := sampleTrade("t3")
	require.NoError(t, s.SaveTrade(ctx, trade))

	trade.Symbol = "GBPUSD"
	require.NoError(t, s.SaveTrade(ctx, trade))

	got, err := s.GetTrade(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, "GBPUSD", got.Symbol)

	trades, err := s.ListTrades(ctx, TradeFilter{})
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestTradeNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetTrade(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = s.DeleteTrade(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListTradesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, sym := range []string{"EURUSD", "GBPUSD", "EURUSD"} {
		tr := sampleTrade("t" + string(rune('a'+i)))
		tr.Symbol = sym
		tr.CreatedAt = time.Date(2025, 1, 1+i, 9, 0, 0, 0, time.UTC)
		require.NoError(t, s.SaveTrade(ctx, tr))
	}

	t.Run("by symbol", func(t *testing.T) {
		trades, err := s.ListTrades(ctx, TradeFilter{Symbol: "EURUSD"})
		require.NoError(t, err)
		assert.Len(t, trades, 2)
	})

	t.Run("by date range", func(t *testing.T) {
		trades, err := s.ListTrades(ctx, TradeFilter{
			StartDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, "GBPUSD", trades[0].Symbol)
	})

	t.Run("ascending order with limit", func(t *testing.T) {
		trades, err := s.ListTrades(ctx, TradeFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, trades, 2)
		assert.True(t, trades[0].CreatedAt.Before(trades[1].CreatedAt))
	})
}

func TestListTradesSkipsCorruptRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTrade(ctx, sampleTrade("good")))

	// Break the JSON tags column behind the store's back.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trades (id, created_at, symbol, tags) VALUES (?, ?, ?, ?)`,
		"bad", time.Now().UTC(), "EURUSD", "{not json")
	require.NoError(t, err)

	trades, err := s.ListTrades(ctx, TradeFilter{})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "good", trades[0].ID)
}

func TestSetupActivateExclusivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, s.SaveSetup(ctx, &models.TradingSetup{
			ID:        id,
			Name:      "setup " + id,
			Checklist: []string{"htf trend", "liquidity sweep"},
			CreatedAt: time.Now().UTC(),
		}))
	}

	require.NoError(t, s.ActivateSetup(ctx, "s2"))
	require.NoError(t, s.ActivateSetup(ctx, "s3"))

	setups, err := s.ListSetups(ctx)
	require.NoError(t, err)
	require.Len(t, setups, 3)

	var active []string
	for _, st := range setups {
		if st.IsActive {
			active = append(active, st.ID)
		}
	}
	assert.Equal(t, []string{"s3"}, active)

	err = s.ActivateSetup(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestSetupRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := &models.TradingSetup{
		ID:          "s1",
		Name:        "london breakout",
		Category:    "breakout",
		Checklist:   []string{"asia range set", "volume spike"},
		DefaultRR:   fptr(2.5),
		DefaultTags: []string{"london"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.SaveSetup(ctx, want))

	got, err := s.GetSetup(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Checklist, got.Checklist)
	require.NotNil(t, got.DefaultRR)
	assert.InDelta(t, 2.5, *got.DefaultRR, 1e-9)
}

func TestAlertRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := &models.Alert{
		ID:          "a1",
		Kind:        models.AlertKindPrice,
		Status:      models.AlertActive,
		CreatedAt:   time.Now().UTC(),
		Symbol:      "EURUSD",
		Condition:   models.CrossesAbove,
		TargetPrice: 1.2100,
	}
	require.NoError(t, s.SaveAlert(ctx, want))

	got, err := s.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.AlertKindPrice, got.Kind)
	assert.Equal(t, models.AlertActive, got.Status)
	assert.InDelta(t, 1.2100, got.TargetPrice, 1e-9)
	assert.Nil(t, got.TriggeredAt)
}

func TestTriggerAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAlert(ctx, &models.Alert{
		ID:        "a1",
		Kind:      models.AlertKindPrice,
		Status:    models.AlertActive,
		CreatedAt: time.Now().UTC(),
		Symbol:    "EURUSD",
		Condition: models.CrossesAbove,
	}))

	at := time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC)
	require.NoError(t, s.TriggerAlert(ctx, "a1", at))

	got, err := s.GetAlert(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.AlertTriggered, got.Status)
	require.NotNil(t, got.TriggeredAt)
	assert.True(t, at.Equal(*got.TriggeredAt))

	t.Run("second trigger reports terminal", func(t *testing.T) {
		err := s.TriggerAlert(ctx, "a1", at.Add(time.Minute))
		assert.True(t, errors.Is(err, apperrors.ErrAlertTerminal))

		// The original trigger time is untouched.
		got, err := s.GetAlert(ctx, "a1")
		require.NoError(t, err)
		assert.True(t, at.Equal(*got.TriggeredAt))
	})

	t.Run("unknown alert reports not found", func(t *testing.T) {
		err := s.TriggerAlert(ctx, "missing", at)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestListAlertsByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.SaveAlert(ctx, &models.Alert{
			ID:        id,
			Kind:      models.AlertKindPrice,
			Status:    models.AlertActive,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
			Symbol:    "EURUSD",
			Condition: models.CrossesAbove,
		}))
	}
	require.NoError(t, s.TriggerAlert(ctx, "a2", time.Now().UTC()))

	active := models.AlertActive
	alerts, err := s.ListAlerts(ctx, &active)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	all, err := s.ListAlerts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
