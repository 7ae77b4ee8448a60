// Package fallback produces placeholder statistics used when live data is unavailable.
package fallback

import (
	"time"

	"github.com/azure/mentions-sentiment-report/internal/models"
)

// Days is the number of synthetic days generated
const Days = 5

// startDate is the first synthetic day
var startDate = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

// Generate returns a fixed 5-day DailyStats with a linear progression per label
func Generate() models.DailyStats {
	stats := make(models.DailyStats, Days)

	for i := 0; i < Days; i++ {
		date := startDate.AddDate(0, 0, i).Format("2006-01-02")

		stats[date] = models.Counts{
			Positive: max(5, 15+i*2),
			Negative: max(3, 8+i),
			Neutral:  max(8, 12+i),
		}
	}

	return stats
}
