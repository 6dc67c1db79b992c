package recommender

import (
	"time"

	"github.com/raushankrgupta/threadline/models"
)

// RecencyPenalty returns the amount subtracted from a garment's score given
// when it was last worn. A zero lastWorn means never worn and costs nothing.
// Wear dates in the future are treated as worn today.
func (c Config) RecencyPenalty(lastWorn, now time.Time) float64 {
	if lastWorn.IsZero() {
		return 0
	}
	since := now.Sub(lastWorn)
	switch {
	case since <= c.RecentWindow:
		return c.RecentPenalty
	case since <= c.ModerateWindow:
		return c.ModeratePenalty
	default:
		return 0
	}
}

// lastWornDates maps garment id to its most recent wear.
func lastWornDates(history []models.WornRecord) map[string]time.Time {
	last := make(map[string]time.Time, len(history))
	for _, rec := range history {
		if rec.DateWorn.After(last[rec.GarmentID]) {
			last[rec.GarmentID] = rec.DateWorn
		}
	}
	return last
}
