package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/testutil"
)

func TestDetectRecurring(t *testing.T) {
	anchor := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		transactions []model.Transaction
		wantCount    int
		check        func(t *testing.T, patterns []model.Pattern)
	}{
		{
			name: "monthly subscription detected",
			transactions: testutil.NewTxnBuilder(anchor).
				At("Netflix").In("Entertainment").Amount(-15.99).
				Series(4, 30*24*time.Hour),
			wantCount: 1,
			check: func(t *testing.T, patterns []model.Pattern) {
				p := patterns[0]
				assert.Equal(t, model.PatternRecurring, p.Type)
				assert.Equal(t, "Netflix", p.Merchant)
				assert.Equal(t, "Entertainment", p.Category)
				assert.Equal(t, 4, p.Occurrences)
				assert.InDelta(t, 15.99, p.AverageAmount, 0.001)
				assert.InDelta(t, 30, p.FrequencyDays, 0.01)
				assert.InDelta(t, 0.4, p.Confidence, 0.001)
			},
		},
		{
			name: "two charges are not recurring",
			transactions: testutil.NewTxnBuilder(anchor).
				At("Gym").Amount(-40).
				Series(2, 30*24*time.Hour),
			wantCount: 0,
		},
		{
			name: "inconsistent amounts excluded from the group",
			transactions: append(
				testutil.NewTxnBuilder(anchor).
					At("Spotify").Amount(-9.99).
					Series(3, 30*24*time.Hour),
				testutil.NewTxnBuilder(anchor.AddDate(0, 3, 0)).
					At("Spotify").Amount(-12.99).Build(),
			),
			wantCount: 1,
			check: func(t *testing.T, patterns []model.Pattern) {
				// The outlier charge drops out; the stable three remain.
				assert.Equal(t, 3, patterns[0].Occurrences)
				assert.InDelta(t, 9.99, patterns[0].AverageAmount, 0.001)
			},
		},
		{
			name: "income deposits are ignored",
			transactions: testutil.NewTxnBuilder(anchor).
				At("Employer").Amount(2500).
				Series(4, 14*24*time.Hour),
			wantCount: 0,
		},
		{
			name: "confidence caps at one",
			transactions: testutil.NewTxnBuilder(anchor).
				At("Netflix").Amount(-15.99).
				Series(12, 30*24*time.Hour),
			wantCount: 1,
			check: func(t *testing.T, patterns []model.Pattern) {
				assert.Equal(t, 1.0, patterns[0].Confidence)
			},
		},
		{
			name:         "empty input",
			transactions: nil,
			wantCount:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patterns := NewDetector().DetectRecurring(tt.transactions)
			require.Len(t, patterns, tt.wantCount)
			if tt.check != nil {
				tt.check(t, patterns)
			}
		})
	}
}

func TestDetectRecurringSkipsMalformedRows(t *testing.T) {
	valid := testutil.NewTxnBuilder(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)).
		At("Netflix").Amount(-15.99).
		Series(3, 30*24*time.Hour)
	malformed := model.Transaction{ID: "bad", Amount: -15.99} // no date, no merchant

	patterns := NewDetector().DetectRecurring(append(valid, malformed))
	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].Occurrences)
}

func TestDetectSpikes(t *testing.T) {
	anchor := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("outlier month flagged high", func(t *testing.T) {
		txns := testutil.NewTxnBuilder(anchor).
			At("Various").In("Dining").
			MonthlyExpenses(100, 100, 100, 500)

		patterns := NewDetector().DetectSpikes(txns)
		require.Len(t, patterns, 1)

		p := patterns[0]
		assert.Equal(t, model.PatternSpike, p.Type)
		assert.Equal(t, "Dining", p.Category)
		assert.Equal(t, time.April, p.Month)
		assert.Equal(t, 2024, p.Year)
		assert.InDelta(t, 500, p.TotalAmount, 0.001)
		// Baseline excludes the outlier month itself.
		assert.InDelta(t, 100, p.AverageAmount, 0.001)
		assert.InDelta(t, 5.0, p.SpikeRatio, 0.001)
		assert.Equal(t, model.PatternSeverityHigh, p.Severity)
	})

	t.Run("moderate spike flagged medium", func(t *testing.T) {
		txns := testutil.NewTxnBuilder(anchor).
			At("Various").In("Dining").
			MonthlyExpenses(100, 100, 100, 350)

		patterns := NewDetector().DetectSpikes(txns)
		require.Len(t, patterns, 1)
		assert.InDelta(t, 3.5, patterns[0].SpikeRatio, 0.001)
		assert.Equal(t, model.PatternSeverityMedium, patterns[0].Severity)
	})

	t.Run("flat months produce no spikes", func(t *testing.T) {
		txns := testutil.NewTxnBuilder(anchor).
			At("Various").In("Groceries").
			MonthlyExpenses(200, 210, 190, 205)

		patterns := NewDetector().DetectSpikes(txns)
		assert.Empty(t, patterns)
	})

	t.Run("single month is skipped", func(t *testing.T) {
		txns := testutil.NewTxnBuilder(anchor).
			At("Various").In("Travel").
			MonthlyExpenses(900)

		patterns := NewDetector().DetectSpikes(txns)
		assert.Empty(t, patterns)
	})

	t.Run("uncategorized expenses are ignored", func(t *testing.T) {
		txns := testutil.NewTxnBuilder(anchor).
			At("Various").In("").
			MonthlyExpenses(100, 100, 500)

		patterns := NewDetector().DetectSpikes(txns)
		assert.Empty(t, patterns)
	})
}

func TestDetectSeasonal(t *testing.T) {
	t.Run("december heavy category labeled winter", func(t *testing.T) {
		var txns []model.Transaction
		b := testutil.NewTxnBuilder(time.Time{}).At("Gift Shop").In("Gifts")
		// Small spend most of the year, a large December.
		for m := time.January; m <= time.November; m++ {
			txns = append(txns, b.On(time.Date(2024, m, 10, 0, 0, 0, 0, time.UTC)).Amount(-20).Build())
		}
		txns = append(txns, b.On(time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC)).Amount(-600).Build())

		patterns := NewDetector().DetectSeasonal(txns)
		require.Len(t, patterns, 1)

		p := patterns[0]
		assert.Equal(t, model.PatternSeasonal, p.Type)
		assert.Equal(t, "Gifts", p.Category)
		assert.Equal(t, []time.Month{time.December}, p.PeakMonths)
		assert.Equal(t, "winter", p.Season)
		assert.InDelta(t, (20*11+600)/12.0, p.AverageAmount, 0.001)
	})

	t.Run("winter outranks summer when both peak", func(t *testing.T) {
		b := testutil.NewTxnBuilder(time.Time{}).At("Utility Co").In("Utilities")
		txns := []model.Transaction{
			b.On(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)).Amount(-300).Build(),
			b.On(time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)).Amount(-290).Build(),
			b.On(time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)).Amount(-50).Build(),
		}

		patterns := NewDetector().DetectSeasonal(txns)
		require.Len(t, patterns, 1)
		assert.Equal(t, "winter", patterns[0].Season)
		assert.ElementsMatch(t, []time.Month{time.January, time.July}, patterns[0].PeakMonths)
	})
}

func TestAnalyzeHabits(t *testing.T) {
	mon := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	sat := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	b := testutil.NewTxnBuilder(mon)
	txns := []model.Transaction{
		b.On(mon).At("Cafe").In("Dining").Paying("debit card").Amount(-10).Build(),
		b.On(mon.AddDate(0, 0, 1)).At("Cafe").In("Dining").Amount(-10).Build(),
		b.On(sat).At("Bar").In("Dining").Paying("credit card").Amount(-40).Build(),
		b.On(mon.AddDate(0, 0, 2)).At("Employer").In("Salary").Amount(2000).Build(),
	}

	habits := NewDetector().AnalyzeHabits(txns)

	assert.InDelta(t, 60, habits.SpendByCategory["Dining"], 0.001)
	assert.InDelta(t, 40, habits.SpendByPaymentMethod["credit card"], 0.001)
	assert.InDelta(t, 10, habits.WeekdayAverage, 0.001)
	assert.InDelta(t, 40, habits.WeekendAverage, 0.001)
	// Income counts toward the overall transaction size, not spend.
	assert.InDelta(t, (10+10+40+2000)/4.0, habits.AverageTransaction, 0.001)

	require.NotEmpty(t, habits.TopMerchants)
	assert.Equal(t, "Cafe", habits.TopMerchants[0].Merchant)
	assert.Equal(t, 2, habits.TopMerchants[0].Visits)
}

func TestSummarize(t *testing.T) {
	anchor := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	recurring := testutil.NewTxnBuilder(anchor).
		At("Netflix").In("Entertainment").Amount(-15.99).
		Series(4, 30*24*time.Hour)
	spiky := testutil.NewTxnBuilder(anchor).
		At("Various").In("Dining").
		MonthlyExpenses(100, 100, 100, 500)

	insights := NewDetector().Summarize(append(recurring, spiky...))
	require.Len(t, insights, 2)

	assert.Equal(t, "recurring", insights[0].Type)
	assert.Equal(t, model.SeverityInfo, insights[0].Severity)
	assert.Contains(t, insights[0].Message, "Netflix")
	assert.Contains(t, insights[0].Message, "every 30 days")

	assert.Equal(t, "spike", insights[1].Type)
	assert.Equal(t, model.SeverityWarning, insights[1].Severity)
	assert.Contains(t, insights[1].Message, "Dining")
}
