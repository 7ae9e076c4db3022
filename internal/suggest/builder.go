package suggest

import (
	"fmt"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// Weekend spending this far above weekday spending prompts a budget note.
const weekendSkewRatio = 1.5

// Builder turns detected patterns into actionable suggestions.
type Builder struct{}

// NewBuilder creates a suggestion builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// FromPatterns derives one suggestion per actionable pattern. Recurring
// charges become subscription reviews, spikes become reduction targets,
// and a heavy weekend skew becomes a budgeting recommendation. The caller
// is expected to deduplicate the result against prior runs.
func (b *Builder) FromPatterns(patterns []model.Pattern, habits *model.HabitSummary, runID string, now time.Time) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(patterns))

	for _, p := range patterns {
		switch p.Type {
		case model.PatternRecurring:
			annual := p.AverageAmount * 12
			if p.FrequencyDays > 0 {
				annual = p.AverageAmount * (365 / p.FrequencyDays)
			}
			out = append(out, model.Suggestion{
				Type:             model.SuggestionSavings,
				Title:            fmt.Sprintf("Review Recurring Charge From %s", p.Merchant),
				Category:         p.Category,
				Description:      fmt.Sprintf("%s bills about $%.2f on a regular cycle, roughly $%.2f per year. Cancelling or downgrading would recover the full amount.", p.Merchant, p.AverageAmount, annual),
				PotentialSavings: ptr(p.AverageAmount),
				RunID:            runID,
				GeneratedAt:      now,
			})

		case model.PatternSpike:
			excess := p.TotalAmount - p.AverageAmount
			if excess <= 0 {
				continue
			}
			out = append(out, model.Suggestion{
				Type:             model.SuggestionReduction,
				Title:            fmt.Sprintf("Reduce %s Spending", p.Category),
				Category:         p.Category,
				Description:      fmt.Sprintf("%s spending hit $%.2f in %s %d, %.1fx its usual level. Returning to the baseline would free up $%.2f.", p.Category, p.TotalAmount, p.Month, p.Year, p.SpikeRatio, excess),
				PotentialSavings: ptr(excess),
				RunID:            runID,
				GeneratedAt:      now,
			})

		case model.PatternSeasonal:
			out = append(out, model.Suggestion{
				Type:        model.SuggestionBudget,
				Title:       fmt.Sprintf("Budget Ahead For %s %s Spending", p.Season, p.Category),
				Category:    p.Category,
				Description: fmt.Sprintf("%s spending concentrates in %s, averaging $%.2f per active month. Setting that aside in advance smooths the peak.", p.Category, p.Season, p.AverageAmount),
				RunID:       runID,
				GeneratedAt: now,
			})
		}
	}

	if habits != nil && habits.WeekdayAverage > 0 && habits.WeekendAverage > habits.WeekdayAverage*weekendSkewRatio {
		out = append(out, model.Suggestion{
			Type:        model.SuggestionBudget,
			Title:       "Set A Weekend Spending Budget",
			Category:    "General",
			Description: fmt.Sprintf("Weekend days average $%.2f against $%.2f on weekdays. A fixed weekend allowance would rein in the difference.", habits.WeekendAverage, habits.WeekdayAverage),
			RunID:       runID,
			GeneratedAt: now,
		})
	}

	return out
}

func ptr(v float64) *float64 {
	return &v
}
