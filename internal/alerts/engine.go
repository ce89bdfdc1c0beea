package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/notify"
	"tradejournal/internal/store"
	"tradejournal/pkg/id"
	"tradejournal/pkg/utils"
)

// DefaultInterval is the default evaluation period of the polling loop.
const DefaultInterval = 5 * time.Second

// Config holds the engine dependencies.
type Config struct {
	Store    store.DataStore
	Prices   PriceFeed
	Calendar CalendarFeed
	Notifier notify.Notifier
	Settings SettingsProvider
	Logger   zerolog.Logger
	Interval time.Duration
}

// Engine evaluates active alerts against live data on a recurring schedule
// and transitions them to triggered exactly once. Triggered is terminal:
// a triggered alert is never re-evaluated, so re-running evaluation after
// a restart is safe.
type Engine struct {
	store    store.DataStore
	prices   PriceFeed
	calendar CalendarFeed
	notifier notify.Notifier
	settings SettingsProvider
	logger   zerolog.Logger
	interval time.Duration
}

// New creates an alert engine. A zero Interval falls back to DefaultInterval.
func New(cfg Config) *Engine {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	settings := cfg.Settings
	if settings == nil {
		settings = StaticSettings{NotificationsEnabled: true, PriceAlertsEnabled: true, NewsAlertsEnabled: true}
	}
	return &Engine{
		store:    cfg.Store,
		prices:   cfg.Prices,
		calendar: cfg.Calendar,
		notifier: cfg.Notifier,
		settings: settings,
		logger:   cfg.Logger.With().Str("component", "alerts").Logger(),
		interval: interval,
	}
}

// CreatePriceAlert validates and persists a new price alert.
func (e *Engine) CreatePriceAlert(ctx context.Context, symbol string, condition models.PriceCondition, targetPrice float64) (models.Alert, error) {
	if symbol == "" {
		return models.Alert{}, apperrors.NewValidationError("symbol", symbol, "must not be empty")
	}
	if condition != models.CrossesAbove && condition != models.CrossesBelow {
		return models.Alert{}, apperrors.NewValidationError("condition", condition, "unknown price condition")
	}
	if targetPrice <= 0 {
		return models.Alert{}, apperrors.ErrInvalidTarget
	}

	alert := models.Alert{
		ID:          id.New(),
		Kind:        models.AlertKindPrice,
		Status:      models.AlertActive,
		CreatedAt:   time.Now().UTC(),
		Symbol:      symbol,
		Condition:   condition,
		TargetPrice: targetPrice,
	}
	if err := e.store.SaveAlert(ctx, &alert); err != nil {
		return models.Alert{}, err
	}
	e.logger.Info().Str("alert_id", alert.ID).Str("symbol", symbol).Float64("target", targetPrice).Msg("price alert created")
	return alert, nil
}

// CreateNewsAlert validates and persists a new pre-event news alert.
func (e *Engine) CreateNewsAlert(ctx context.Context, event models.CalendarEvent, triggerBeforeMinutes int) (models.Alert, error) {
	if event.ID == "" {
		return models.Alert{}, apperrors.NewValidationError("newsId", event.ID, "must not be empty")
	}
	if triggerBeforeMinutes <= 0 {
		return models.Alert{}, apperrors.NewValidationError("triggerBeforeMinutes", triggerBeforeMinutes, "must be positive")
	}

	alert := models.Alert{
		ID:                   id.New(),
		Kind:                 models.AlertKindNews,
		Status:               models.AlertActive,
		CreatedAt:            time.Now().UTC(),
		NewsID:               event.ID,
		NewsTitle:            event.Title,
		EventTime:            event.ScheduledTime,
		TriggerBeforeMinutes: triggerBeforeMinutes,
	}
	if err := e.store.SaveAlert(ctx, &alert); err != nil {
		return models.Alert{}, err
	}
	e.logger.Info().Str("alert_id", alert.ID).Str("news_id", event.ID).Time("event_time", event.ScheduledTime).Msg("news alert created")
	return alert, nil
}

// DeleteAlert removes an alert.
func (e *Engine) DeleteAlert(ctx context.Context, alertID string) error {
	return e.store.DeleteAlert(ctx, alertID)
}

// ListAlerts returns alerts, optionally filtered by status.
func (e *Engine) ListAlerts(ctx context.Context, status *models.AlertStatus) ([]models.Alert, error) {
	return e.store.ListAlerts(ctx, status)
}

// UpcomingEvents proxies the external calendar feed.
func (e *Engine) UpcomingEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	return e.calendar.UpcomingEvents(ctx)
}

// Tick performs one full synchronous scan of active alerts. It is the unit
// the scheduler drives and what tests invoke directly; now is the tick's
// evaluation time. Only the initial listing failure is returned: per-alert
// feed or store problems defer that alert to the next tick.
func (e *Engine) Tick(ctx context.Context, now time.Time) error {
	snap := e.settings.Snapshot()

	active := models.AlertActive
	alerts, err := e.store.ListAlerts(ctx, &active)
	if err != nil {
		return apperrors.Wrap(err, "listing active alerts")
	}

	// One feed read per symbol per tick.
	prices := make(map[string]float64)

	for i := range alerts {
		alert := &alerts[i]
		switch alert.Kind {
		case models.AlertKindPrice:
			e.evalPrice(ctx, alert, now, snap, prices)
		case models.AlertKindNews:
			e.evalNews(ctx, alert, now, snap)
		}
	}
	return nil
}

func (e *Engine) evalPrice(ctx context.Context, alert *models.Alert, now time.Time, snap Settings, prices map[string]float64) {
	price, seen := prices[alert.Symbol]
	if !seen {
		current, ok, err := e.prices.CurrentPrice(ctx, alert.Symbol)
		if err != nil || !ok {
			// Feed unavailable: skip this tick, no state change.
			e.logger.Debug().Str("symbol", alert.Symbol).Err(err).Msg("price unavailable, deferring")
			return
		}
		price = current
		prices[alert.Symbol] = current
	}

	crossed := false
	switch alert.Condition {
	case models.CrossesAbove:
		crossed = price >= alert.TargetPrice
	case models.CrossesBelow:
		crossed = price <= alert.TargetPrice
	}
	if !crossed {
		return
	}

	title := fmt.Sprintf("%s crossed %s", alert.Symbol, utils.FormatPrice(alert.TargetPrice))
	body := fmt.Sprintf("current price %s, condition %s", utils.FormatPrice(price), alert.Condition)
	e.trigger(ctx, alert, now, snap, notify.CategoryPriceAlert, title, body)
}

func (e *Engine) evalNews(ctx context.Context, alert *models.Alert, now time.Time, snap Settings) {
	until := alert.EventTime.Sub(now)
	window := time.Duration(alert.TriggerBeforeMinutes) * time.Minute

	// An event whose window was missed entirely (until <= 0 without ever
	// being inside the window) stays active; see the engine tests.
	if until <= 0 || until > window {
		return
	}

	title := fmt.Sprintf("upcoming: %s", alert.NewsTitle)
	body := fmt.Sprintf("event in %d min", int(until.Minutes())+1)
	e.trigger(ctx, alert, now, snap, notify.CategoryNewsAlert, title, body)
}

// trigger flips the alert to triggered. The store write happens before the
// in-memory state is considered authoritative: on a write failure the alert
// stays active and the next tick retries safely.
func (e *Engine) trigger(ctx context.Context, alert *models.Alert, now time.Time, snap Settings, category notify.Category, title, body string) {
	if err := e.store.TriggerAlert(ctx, alert.ID, now); err != nil {
		e.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("persisting alert transition failed")
		return
	}

	alert.Status = models.AlertTriggered
	triggeredAt := now
	alert.TriggeredAt = &triggeredAt

	e.logger.Info().
		Str("alert_id", alert.ID).
		Str("kind", string(alert.Kind)).
		Msg("alert triggered")

	// Gating affects emission only; the transition above already happened.
	if !e.shouldEmit(snap, category) || e.notifier == nil {
		return
	}
	msg := notify.Message{
		Title:     title,
		Body:      body,
		Severity:  notify.SeverityWarning,
		Category:  category,
		Timestamp: now,
	}
	if err := e.notifier.Send(ctx, msg); err != nil {
		// Fire and forget: delivery failure never affects alert state.
		e.logger.Warn().Err(err).Str("alert_id", alert.ID).Msg("notification delivery failed")
	}
}

func (e *Engine) shouldEmit(snap Settings, category notify.Category) bool {
	if !snap.NotificationsEnabled {
		return false
	}
	switch category {
	case notify.CategoryPriceAlert:
		return snap.PriceAlertsEnabled
	case notify.CategoryNewsAlert:
		return snap.NewsAlertsEnabled
	}
	return true
}
