package models

import "time"

// TradingSetup is a reusable trade template with a pre-flight checklist.
// At most one setup is active at a time; activating one deactivates the rest.
type TradingSetup struct {
	ID              string
	Name            string
	Category        string
	Checklist       []string
	DefaultRR       *float64
	DefaultTags     []string
	DefaultMistakes []string
	IsActive        bool
	CreatedAt       time.Time
}
