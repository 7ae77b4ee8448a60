package models

import (
	"sort"
	"time"
)

// Sentiment is the label assigned to a single mention
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// Mention represents a single post matching the search query
type Mention struct {
	ID        string    `json:"id"`
	CreatedAt string    `json:"created_at"` // raw API timestamp, e.g. 2025-10-01T12:00:00.000Z
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
}

// Day returns the calendar day of the mention (the first 10 characters of its timestamp)
func (m Mention) Day() string {
	if len(m.CreatedAt) < 10 {
		return m.CreatedAt
	}
	return m.CreatedAt[:10]
}

// Counts holds the per-label tally for one day (or for the whole period)
type Counts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the number of mentions across all labels
func (c Counts) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// Add increments the counter matching the given label
func (c *Counts) Add(s Sentiment) {
	switch s {
	case Positive:
		c.Positive++
	case Negative:
		c.Negative++
	default:
		c.Neutral++
	}
}

// DailyStats maps an ISO calendar day (YYYY-MM-DD) to its counts
type DailyStats map[string]Counts

// Dates returns the keys sorted ascending, which is chronological for ISO days
func (d DailyStats) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Summary is the aggregate view over every day of a run
type Summary struct {
	Totals       Counts  `json:"totals"`
	NetSentiment float64 `json:"net_sentiment"` // percentage
	Trend        string  `json:"trend"`
}

// Report represents the outcome of a single report run
type Report struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Query       string     `json:"query"`
	DataSource  string     `json:"data_source"` // "api" or "fallback"
	Mentions    int        `json:"mentions"`
	Daily       DailyStats `json:"daily"`
	Summary     *Summary   `json:"summary,omitempty"` // nil when no data was available
	Text        string     `json:"-"`
	OutputFile  string     `json:"output_file,omitempty"`
}
