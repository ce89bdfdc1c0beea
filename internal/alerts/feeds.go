// Package alerts implements the alert state machine and its polling loop.
package alerts

import (
	"context"

	"tradejournal/internal/models"
)

// PriceFeed supplies the current observed price for a subscribed symbol.
// ok=false means the feed has no price this tick; evaluation of the
// affected alerts is deferred to the next tick.
type PriceFeed interface {
	CurrentPrice(ctx context.Context, symbol string) (price float64, ok bool, err error)
}

// CalendarFeed supplies upcoming news/economic events.
type CalendarFeed interface {
	UpcomingEvents(ctx context.Context) ([]models.CalendarEvent, error)
}

// Settings is the notification-switch snapshot read at the start of each
// tick. Gating suppresses emission only, never the state transition.
type Settings struct {
	NotificationsEnabled bool
	PriceAlertsEnabled   bool
	NewsAlertsEnabled    bool
}

// SettingsProvider hands the engine a read-only settings snapshot. It is
// re-read every tick, so changes take effect on the next tick.
type SettingsProvider interface {
	Snapshot() Settings
}

// StaticSettings is a SettingsProvider returning a fixed snapshot.
type StaticSettings Settings

// Snapshot implements SettingsProvider.
func (s StaticSettings) Snapshot() Settings {
	return Settings(s)
}
