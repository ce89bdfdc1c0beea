package analytics

import (
	"sort"

	"tradejournal/internal/models"
)

// UnknownGroup is the bucket for trades missing the grouping attribute.
// They are counted there rather than dropped.
const UnknownGroup = "Unknown"

// GroupStats aggregates the trades of one bucket.
type GroupStats struct {
	Count    int
	Wins     int
	WinRate  float64
	TotalPnL float64
}

// Group pairs a bucket key with its stats, for sorted listings.
type Group struct {
	Key string
	GroupStats
}

// KeyFunc maps a trade to the buckets it belongs to. Returning multiple
// keys (tags) contributes the trade to each; returning none routes it to
// the Unknown bucket.
type KeyFunc func(models.TradeRecord) []string

// GroupBy buckets closed trades by keyFn and aggregates each bucket.
func GroupBy(trades []models.TradeRecord, keyFn KeyFunc) map[string]GroupStats {
	groups := make(map[string]GroupStats)

	for _, t := range trades {
		if !t.IsClosed() {
			continue
		}
		keys := keyFn(t)
		if len(keys) == 0 {
			keys = []string{UnknownGroup}
		}
		for _, key := range keys {
			g := groups[key]
			g.Count++
			g.TotalPnL += *t.ProfitOrLoss
			if *t.Status == models.StatusWin {
				g.Wins++
			}
			groups[key] = g
		}
	}

	for key, g := range groups {
		g.WinRate = float64(g.Wins) / float64(g.Count) * 100
		groups[key] = g
	}
	return groups
}

// SortGroups orders buckets descending by total P&L, ties broken by key
// lexical order so listings are deterministic.
func SortGroups(groups map[string]GroupStats) []Group {
	out := make([]Group, 0, len(groups))
	for key, stats := range groups {
		out = append(out, Group{Key: key, GroupStats: stats})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnL != out[j].TotalPnL {
			return out[i].TotalPnL > out[j].TotalPnL
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// BySymbol buckets trades by instrument symbol.
func BySymbol(t models.TradeRecord) []string {
	if t.Symbol == "" {
		return nil
	}
	return []string{t.Symbol}
}

// BySetup buckets trades by setup ID.
func BySetup(t models.TradeRecord) []string {
	if t.SetupID == "" {
		return nil
	}
	return []string{t.SetupID}
}

// ByTag buckets trades by every tag they carry; a trade with N tags counts
// in N buckets.
func ByTag(t models.TradeRecord) []string {
	return t.Tags
}

// ByWeekday buckets trades by the day of week they were taken.
func ByWeekday(t models.TradeRecord) []string {
	return []string{t.CreatedAt.Weekday().String()}
}

// ByEntryReason buckets trades by the recorded entry reason.
func ByEntryReason(t models.TradeRecord) []string {
	if t.Psychology.EntryReason == "" {
		return nil
	}
	return []string{string(t.Psychology.EntryReason)}
}
