package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 9, 0, 0, 0, time.UTC)
}

func TestEquityCurve(t *testing.T) {
	trades := []models.TradeRecord{
		closed(50, day(1)),
		closed(-30, day(2)),
		closed(20, day(3)),
	}

	curve := EquityCurve(trades, 1000)
	require.Len(t, curve, 4)

	assert.Equal(t, day(1).Add(-time.Minute), curve[0].Time)
	assert.InDelta(t, 1000.0, curve[0].Equity, 1e-9)
	assert.InDelta(t, 1050.0, curve[1].Equity, 1e-9)
	assert.InDelta(t, 1020.0, curve[2].Equity, 1e-9)
	assert.InDelta(t, 1040.0, curve[3].Equity, 1e-9)
}

func TestEquityCurveSkipsOpenTrades(t *testing.T) {
	trades := []models.TradeRecord{
		{Symbol: "EURUSD", CreatedAt: day(1)},
		closed(50, day(2)),
	}
	curve := EquityCurve(trades, 1000)
	require.Len(t, curve, 2)
	assert.InDelta(t, 1050.0, curve[1].Equity, 1e-9)
}

func TestEquityCurveEmpty(t *testing.T) {
	assert.Nil(t, EquityCurve(nil, 1000))
	assert.Nil(t, EquityCurve([]models.TradeRecord{{Symbol: "EURUSD"}}, 1000))
}

func TestMaxDrawdown(t *testing.T) {
	t.Run("strictly increasing curve has zero drawdown", func(t *testing.T) {
		curve := EquityCurve([]models.TradeRecord{
			closed(10, day(1)), closed(20, day(2)), closed(5, day(3)),
		}, 1000)
		dd := MaxDrawdown(curve)
		assert.InDelta(t, 0.0, dd.Percent, 1e-9)
	})

	t.Run("only decreasing curve draws down from the initial balance", func(t *testing.T) {
		curve := EquityCurve([]models.TradeRecord{
			closed(-100, day(1)), closed(-100, day(2)),
		}, 1000)
		dd := MaxDrawdown(curve)
		// (1000 - 800) / 1000 * 100
		assert.InDelta(t, 20.0, dd.Percent, 1e-9)
		assert.Equal(t, day(2), dd.TroughTime)
	})

	t.Run("retracement between two peaks", func(t *testing.T) {
		curve := EquityCurve([]models.TradeRecord{
			closed(200, day(1)),  // 1200, peak
			closed(-300, day(2)), // 900, trough
			closed(500, day(3)),  // 1400
			closed(-100, day(4)), // 1300
		}, 1000)
		dd := MaxDrawdown(curve)
		assert.InDelta(t, 25.0, dd.Percent, 1e-9)
		assert.Equal(t, day(1), dd.PeakTime)
		assert.Equal(t, day(2), dd.TroughTime)
	})

	t.Run("empty curve", func(t *testing.T) {
		assert.InDelta(t, 0.0, MaxDrawdown(nil).Percent, 1e-9)
	})

	t.Run("zero peak yields zero, not NaN", func(t *testing.T) {
		curve := []EquityPoint{
			{Time: day(1), Equity: 0},
			{Time: day(2), Equity: -50},
		}
		dd := MaxDrawdown(curve)
		assert.InDelta(t, 0.0, dd.Percent, 1e-9)
	})
}
