// Package feed provides file-backed implementations of the external price
// and calendar feeds. Another process (or the user) maintains the files;
// the engine only ever pulls the current contents.
package feed

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"tradejournal/internal/models"
)

// FilePriceFeed reads current prices from a JSON file mapping symbol to
// price, e.g. {"EURUSD": 1.2001}. The file is re-read on every call so an
// external updater is picked up without restarts.
type FilePriceFeed struct {
	path string
}

// NewFilePriceFeed creates a price feed over the given JSON file.
func NewFilePriceFeed(path string) *FilePriceFeed {
	return &FilePriceFeed{path: path}
}

// CurrentPrice implements alerts.PriceFeed. A missing file or absent
// symbol reports ok=false rather than an error: the feed is simply
// unavailable this tick.
func (f *FilePriceFeed) CurrentPrice(_ context.Context, symbol string) (float64, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	var prices map[string]float64
	if err := json.Unmarshal(data, &prices); err != nil {
		return 0, false, err
	}

	price, ok := prices[symbol]
	return price, ok, nil
}

// fileEvent is the JSON shape of one calendar entry.
type fileEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// FileCalendarFeed reads upcoming events from a JSON array file.
type FileCalendarFeed struct {
	path string
}

// NewFileCalendarFeed creates a calendar feed over the given JSON file.
func NewFileCalendarFeed(path string) *FileCalendarFeed {
	return &FileCalendarFeed{path: path}
}

// UpcomingEvents implements alerts.CalendarFeed. A missing file yields an
// empty calendar.
func (f *FileCalendarFeed) UpcomingEvents(_ context.Context) ([]models.CalendarEvent, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var raw []fileEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(raw))
	for _, ev := range raw {
		events = append(events, models.CalendarEvent{
			ID:            ev.ID,
			Title:         ev.Title,
			ScheduledTime: ev.ScheduledTime,
		})
	}
	return events, nil
}
