package report

import (
	"fmt"
	"strings"

	"github.com/azure/mentions-sentiment-report/internal/models"
)

const ruleWidth = 60

// Render builds the human-readable console report for the given stats
func Render(title string, stats models.DailyStats) string {
	var text strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	text.WriteString("\n" + rule + "\n")
	text.WriteString(fmt.Sprintf("📊 %s\n", title))
	text.WriteString(rule + "\n")

	if len(stats) == 0 {
		text.WriteString("❌ No data available for analysis.\n")
		return text.String()
	}

	for _, date := range stats.Dates() {
		counts := stats[date]
		total := counts.Total()

		text.WriteString(fmt.Sprintf("\n📅 %s:\n", date))
		text.WriteString(fmt.Sprintf("   ✅ Positive: %2d (%5.1f%%)\n", counts.Positive, percent(counts.Positive, total)))
		text.WriteString(fmt.Sprintf("   ❌ Negative: %2d (%5.1f%%)\n", counts.Negative, percent(counts.Negative, total)))
		text.WriteString(fmt.Sprintf("   ⚪ Neutral:  %2d (%5.1f%%)\n", counts.Neutral, percent(counts.Neutral, total)))
		text.WriteString(fmt.Sprintf("   📊 Total:    %2d mentions\n", total))
	}

	text.WriteString("\n" + rule + "\n")
	text.WriteString("📈 CONSOLIDATED SUMMARY\n")
	text.WriteString(rule + "\n")

	summary := Summarize(stats)
	if summary == nil {
		text.WriteString("   No mentions were counted.\n")
		return text.String()
	}

	totals := summary.Totals
	all := totals.Total()
	text.WriteString(fmt.Sprintf("   ✅ Positive: %3d (%5.1f%%)\n", totals.Positive, percent(totals.Positive, all)))
	text.WriteString(fmt.Sprintf("   ❌ Negative: %3d (%5.1f%%)\n", totals.Negative, percent(totals.Negative, all)))
	text.WriteString(fmt.Sprintf("   ⚪ Neutral:  %3d (%5.1f%%)\n", totals.Neutral, percent(totals.Neutral, all)))
	text.WriteString(fmt.Sprintf("   📊 Grand Total: %3d mentions\n", all))
	text.WriteString(fmt.Sprintf("   🎯 Net Sentiment Score: %+.1f%%\n", summary.NetSentiment))
	text.WriteString(fmt.Sprintf("   %s Trend: %s\n", trendIcon(summary.Trend), summary.Trend))

	return text.String()
}

func trendIcon(trend string) string {
	switch trend {
	case TrendVeryPositive, TrendPositive:
		return "📈"
	case TrendNeutral:
		return "➡️"
	default:
		return "📉"
	}
}
