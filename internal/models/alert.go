package models

import "time"

// AlertStatus is the lifecycle state of an alert. Triggered is terminal:
// an alert fires at most once and never reverts to active.
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertTriggered AlertStatus = "triggered"
)

// AlertKind discriminates the alert union.
type AlertKind string

const (
	AlertKindPrice AlertKind = "price"
	AlertKindNews  AlertKind = "news"
)

// PriceCondition is the trigger condition of a price alert.
type PriceCondition string

const (
	CrossesAbove PriceCondition = "crosses_above"
	CrossesBelow PriceCondition = "crosses_below"
)

// Alert is a tagged union of price and news alerts, discriminated by Kind.
type Alert struct {
	ID          string
	Kind        AlertKind
	Status      AlertStatus
	CreatedAt   time.Time
	TriggeredAt *time.Time

	// Price alert fields.
	Symbol      string
	Condition   PriceCondition
	TargetPrice float64

	// News alert fields.
	NewsID               string
	NewsTitle            string
	EventTime            time.Time
	TriggerBeforeMinutes int
}

// CalendarEvent is an upcoming news/economic event supplied by the
// external calendar feed.
type CalendarEvent struct {
	ID            string
	Title         string
	ScheduledTime time.Time
}
