// Package notify provides notification delivery for the trading journal.
package notify

import (
	"context"
	"time"
)

// Severity classifies a notification message.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Category identifies what kind of event produced the message. The alert
// engine uses it for per-category gating.
type Category string

const (
	CategoryPriceAlert Category = "price_alert"
	CategoryNewsAlert  Category = "news_alert"
	CategorySystem     Category = "system"
)

// Message is a single notification. Delivery is fire-and-forget: the
// engine requires no delivery guarantee from a channel.
type Message struct {
	Title     string
	Body      string
	Severity  Severity
	Category  Category
	Timestamp time.Time
}

// Notifier delivers notification messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Channel is a named notification destination.
type Channel interface {
	Notifier
	Name() string
}

// MultiNotifier fans a message out to every channel. Channel failures are
// collected but do not stop delivery to the remaining channels.
type MultiNotifier struct {
	channels []Channel
}

// NewMultiNotifier creates a fan-out notifier over the given channels.
func NewMultiNotifier(channels ...Channel) *MultiNotifier {
	return &MultiNotifier{channels: channels}
}

// Send delivers the message to all channels, returning the first error
// encountered after attempting every channel.
func (m *MultiNotifier) Send(ctx context.Context, msg Message) error {
	var firstErr error
	for _, ch := range m.channels {
		if err := ch.Send(ctx, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
