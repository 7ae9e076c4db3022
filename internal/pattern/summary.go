package pattern

import (
	"fmt"

	"github.com/spendscope/spendscope/internal/model"
)

// weekendSkewRatio is the weekend/weekday mean multiple that makes the
// weekend habit worth surfacing.
const weekendSkewRatio = 1.5

// Summarize renders all detected patterns as human-readable insights: one
// low-severity entry per recurring charge, one per spike carrying the
// spike's severity, and a single habit entry when weekend spending clearly
// outpaces weekdays.
func (d *Detector) Summarize(txns []model.Transaction) []model.Insight {
	var insights []model.Insight

	for _, p := range d.DetectRecurring(txns) {
		msg := fmt.Sprintf("%s charges about $%.2f regularly", p.Merchant, p.AverageAmount)
		if p.FrequencyDays > 0 {
			msg = fmt.Sprintf("%s charges about $%.2f every %.0f days", p.Merchant, p.AverageAmount, p.FrequencyDays)
		}
		insights = append(insights, model.Insight{
			Type:     "recurring",
			Message:  msg,
			Severity: model.SeverityInfo,
		})
	}

	for _, p := range d.DetectSpikes(txns) {
		severity := model.SeverityInfo
		if p.Severity == model.PatternSeverityHigh {
			severity = model.SeverityWarning
		}
		insights = append(insights, model.Insight{
			Type: "spike",
			Message: fmt.Sprintf("%s spending hit $%.2f in %s %d, %.1fx the usual monthly total",
				p.Category, p.TotalAmount, p.Month, p.Year, p.SpikeRatio),
			Severity: severity,
		})
	}

	habits := d.AnalyzeHabits(txns)
	if habits.WeekdayAverage > 0 && habits.WeekendAverage > habits.WeekdayAverage*weekendSkewRatio {
		insights = append(insights, model.Insight{
			Type: "habit",
			Message: fmt.Sprintf("Weekend purchases average $%.2f, well above the $%.2f weekday average",
				habits.WeekendAverage, habits.WeekdayAverage),
			Severity: model.SeverityWarning,
		})
	}

	return insights
}
