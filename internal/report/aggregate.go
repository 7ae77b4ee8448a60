// Package report turns classified mentions into daily statistics, a text report and a CSV export.
package report

import (
	"github.com/azure/mentions-sentiment-report/internal/models"
)

// Trend labels derived from the net sentiment score
const (
	TrendVeryPositive = "Very Positive"
	TrendPositive     = "Positive"
	TrendNeutral      = "Neutral"
	TrendNegative     = "Negative"
	TrendVeryNegative = "Very Negative"
)

// Aggregate buckets mentions by calendar day. Mentions without a label are counted as Neutral.
func Aggregate(mentions []models.Mention) models.DailyStats {
	stats := make(models.DailyStats)

	for _, mention := range mentions {
		day := mention.Day()
		counts := stats[day]
		counts.Add(mention.Sentiment)
		stats[day] = counts
	}

	return stats
}

// Totals sums the counts of every day
func Totals(stats models.DailyStats) models.Counts {
	var totals models.Counts
	for _, counts := range stats {
		totals.Positive += counts.Positive
		totals.Negative += counts.Negative
		totals.Neutral += counts.Neutral
	}
	return totals
}

// NetSentiment returns (positive - negative) / total * 100, or 0 when there are no mentions
func NetSentiment(counts models.Counts) float64 {
	total := counts.Total()
	if total == 0 {
		return 0
	}
	return float64(counts.Positive-counts.Negative) / float64(total) * 100
}

// TrendFor maps a net sentiment score to its label. Every threshold is a strict
// greater-than, so exactly 20 is Positive and exactly -5 is Negative.
func TrendFor(score float64) string {
	switch {
	case score > 20:
		return TrendVeryPositive
	case score > 5:
		return TrendPositive
	case score > -5:
		return TrendNeutral
	case score > -20:
		return TrendNegative
	default:
		return TrendVeryNegative
	}
}

// Summarize computes the aggregate view, or nil when the stats hold no mentions
func Summarize(stats models.DailyStats) *models.Summary {
	totals := Totals(stats)
	if totals.Total() == 0 {
		return nil
	}

	score := NetSentiment(totals)
	return &models.Summary{
		Totals:       totals,
		NetSentiment: score,
		Trend:        TrendFor(score),
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
