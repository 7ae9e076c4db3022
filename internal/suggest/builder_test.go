package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendscope/spendscope/internal/model"
)

func TestFromPatternsRecurring(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	patterns := []model.Pattern{
		{
			Type:          model.PatternRecurring,
			Merchant:      "Spotify",
			Category:      "Entertainment",
			AverageAmount: 12.00,
			FrequencyDays: 30,
			Occurrences:   6,
		},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", now)
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, model.SuggestionSavings, s.Type)
	assert.Equal(t, "Review Recurring Charge From Spotify", s.Title)
	assert.Equal(t, "Entertainment", s.Category)
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, now, s.GeneratedAt)
	require.NotNil(t, s.PotentialSavings)
	assert.InDelta(t, 12.00, *s.PotentialSavings, 0.001)
	// Annualized from the 30-day cycle, not a flat 12 months.
	assert.Contains(t, s.Description, "$146.00")
	require.NoError(t, s.Validate())
}

func TestFromPatternsRecurringUnknownFrequency(t *testing.T) {
	patterns := []model.Pattern{
		{
			Type:          model.PatternRecurring,
			Merchant:      "Gym",
			Category:      "Health",
			AverageAmount: 50,
			FrequencyDays: 0,
		},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", time.Now())
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Description, "$600.00", "falls back to a 12-month annualization")
}

func TestFromPatternsSpike(t *testing.T) {
	patterns := []model.Pattern{
		{
			Type:          model.PatternSpike,
			Category:      "Dining",
			TotalAmount:   500,
			AverageAmount: 100,
			SpikeRatio:    5.0,
			Month:         time.April,
			Year:          2024,
			Severity:      model.PatternSeverityHigh,
		},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", time.Now())
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, model.SuggestionReduction, s.Type)
	assert.Equal(t, "Reduce Dining Spending", s.Title)
	require.NotNil(t, s.PotentialSavings)
	assert.InDelta(t, 400, *s.PotentialSavings, 0.001)
	assert.Contains(t, s.Description, "April")
}

func TestFromPatternsSpikeNoExcess(t *testing.T) {
	patterns := []model.Pattern{
		{
			Type:          model.PatternSpike,
			Category:      "Dining",
			TotalAmount:   100,
			AverageAmount: 100,
		},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", time.Now())
	assert.Empty(t, out)
}

func TestFromPatternsSeasonal(t *testing.T) {
	patterns := []model.Pattern{
		{
			Type:          model.PatternSeasonal,
			Category:      "Utilities",
			Season:        "winter",
			AverageAmount: 220,
			PeakMonths:    []time.Month{time.December, time.January},
		},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", time.Now())
	require.Len(t, out, 1)

	s := out[0]
	assert.Equal(t, model.SuggestionBudget, s.Type)
	assert.Equal(t, "Budget Ahead For winter Utilities Spending", s.Title)
	assert.Nil(t, s.PotentialSavings)
}

func TestFromPatternsWeekendSkew(t *testing.T) {
	habits := &model.HabitSummary{
		WeekdayAverage: 20,
		WeekendAverage: 45,
	}

	out := NewBuilder().FromPatterns(nil, habits, "run-1", time.Now())
	require.Len(t, out, 1)
	assert.Equal(t, "Set A Weekend Spending Budget", out[0].Title)
	assert.Equal(t, model.SuggestionBudget, out[0].Type)
	assert.Equal(t, "General", out[0].Category)
}

func TestFromPatternsWeekendSkewBelowThreshold(t *testing.T) {
	habits := &model.HabitSummary{
		WeekdayAverage: 20,
		WeekendAverage: 25,
	}

	out := NewBuilder().FromPatterns(nil, habits, "run-1", time.Now())
	assert.Empty(t, out)
}

func TestFromPatternsIgnoresHabitPatterns(t *testing.T) {
	patterns := []model.Pattern{
		{Type: model.PatternHabit, Category: "General"},
	}

	out := NewBuilder().FromPatterns(patterns, nil, "run-1", time.Now())
	assert.Empty(t, out)
}
