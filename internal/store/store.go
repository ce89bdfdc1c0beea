// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

// DataStore is the durable keyed store contract the engine depends on.
// All writes are atomic at single-record granularity; listings skip rows
// that fail to parse instead of aborting.
type DataStore interface {
	// Trades
	SaveTrade(ctx context.Context, trade *models.TradeRecord) error
	GetTrade(ctx context.Context, id string) (*models.TradeRecord, error)
	DeleteTrade(ctx context.Context, id string) error
	ListTrades(ctx context.Context, filter TradeFilter) ([]models.TradeRecord, error)

	// Setups
	SaveSetup(ctx context.Context, setup *models.TradingSetup) error
	GetSetup(ctx context.Context, id string) (*models.TradingSetup, error)
	DeleteSetup(ctx context.Context, id string) error
	ListSetups(ctx context.Context) ([]models.TradingSetup, error)
	ActivateSetup(ctx context.Context, id string) error

	// Alerts
	SaveAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, id string) (*models.Alert, error)
	DeleteAlert(ctx context.Context, id string) error
	ListAlerts(ctx context.Context, status *models.AlertStatus) ([]models.Alert, error)
	TriggerAlert(ctx context.Context, id string, at time.Time) error

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades. Results are returned
// in ascending creation order.
type TradeFilter struct {
	Symbol    string
	SetupID   string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
