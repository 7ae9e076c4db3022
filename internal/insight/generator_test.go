package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/testutil"
)

// quarterOfSpending builds a realistic multi-month mix of income and
// expenses across several categories and merchants.
func quarterOfSpending() []model.Transaction {
	b := testutil.NewTxnBuilder(time.Time{})
	var txns []model.Transaction

	for month := 1; month <= 3; month++ {
		payday := time.Date(2024, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		txns = append(txns, b.On(payday).At("Employer").In("Salary").Amount(3000).Build())

		for day := 2; day <= 26; day += 4 {
			date := time.Date(2024, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			txns = append(txns,
				b.On(date).At("Grocer").In("Groceries").Amount(-80).Build(),
				b.On(date).At("Cafe").In("Dining").Amount(-12).Build(),
			)
		}
		txns = append(txns,
			b.On(time.Date(2024, time.Month(month), 5, 0, 0, 0, 0, time.UTC)).
				At("Landlord").In("Housing").Amount(-1200).Build(),
			b.On(time.Date(2024, time.Month(month), 7, 0, 0, 0, 0, time.UTC)).
				At("Power Co").In("Utilities").Amount(-90).Build(),
		)
	}
	return txns
}

func TestGenerateUnknownFocus(t *testing.T) {
	txns := quarterOfSpending()

	_, err := NewGenerator().Generate(model.Focus("Astrology"), txns, txns)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnknownFocus)
}

func TestGenerateEmptyFilteredSubset(t *testing.T) {
	full := quarterOfSpending()

	insights, err := NewGenerator().Generate(model.FocusOverview, full, nil)
	require.NoError(t, err)
	assert.NotNil(t, insights)
	assert.Empty(t, insights)
}

func TestGenerateBoundsAndUniqueness(t *testing.T) {
	txns := quarterOfSpending()
	g := NewGenerator()

	foci := []model.Focus{
		model.FocusOverview,
		model.FocusSpendingPatterns,
		model.FocusTrendAnalysis,
		model.FocusMerchantAnalysis,
		model.FocusPredictive,
	}

	for _, focus := range foci {
		t.Run(string(focus), func(t *testing.T) {
			insights, err := g.Generate(focus, txns, txns)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(insights), 5)

			seen := make(map[string]bool)
			for _, ins := range insights {
				assert.NotEmpty(t, ins.Type)
				assert.NotEmpty(t, ins.Message)
				assert.False(t, seen[ins.Type], "duplicate insight type %q", ins.Type)
				seen[ins.Type] = true
			}
		})
	}
}

func TestGenerateOverviewCashFlow(t *testing.T) {
	b := testutil.NewTxnBuilder(time.Time{})
	txns := []model.Transaction{
		b.On(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).At("Employer").In("Salary").Amount(10000).Build(),
		b.On(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).At("Landlord").In("Housing").Amount(-5000).Build(),
		b.On(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)).At("Grocer").In("Groceries").Amount(-4000).Build(),
	}

	insights, err := NewGenerator().Generate(model.FocusOverview, txns, txns)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	byType := make(map[string]model.Insight)
	for _, ins := range insights {
		byType[ins.Type] = ins
	}

	net, ok := byType["net_cash_flow"]
	require.True(t, ok, "expected a net_cash_flow insight")
	assert.Contains(t, net.Message, "1000.00")
	assert.Equal(t, model.SeveritySuccess, net.Severity)

	ratio, ok := byType["expense_ratio"]
	require.True(t, ok, "expected an expense_ratio insight")
	assert.Contains(t, ratio.Message, "90.0%")
	assert.Equal(t, model.SeverityWarning, ratio.Severity)
}

func TestGenerateOverviewNegativeFlow(t *testing.T) {
	b := testutil.NewTxnBuilder(time.Time{})
	txns := []model.Transaction{
		b.On(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).At("Employer").In("Salary").Amount(1000).Build(),
		b.On(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).At("Landlord").In("Housing").Amount(-1500).Build(),
	}

	insights, err := NewGenerator().Generate(model.FocusOverview, txns, txns)
	require.NoError(t, err)
	require.NotEmpty(t, insights)
	assert.Equal(t, "net_cash_flow", insights[0].Type)
	assert.Equal(t, model.SeverityWarning, insights[0].Severity)
}

func TestGenerateTrendAnalysis(t *testing.T) {
	// Expense months: 1000, 1000, 2000. The last month jumps 100%.
	txns := testutil.NewTxnBuilder(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)).
		At("Various").In("General").
		MonthlyExpenses(1000, 1000, 2000)

	insights, err := NewGenerator().Generate(model.FocusTrendAnalysis, txns, txns)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	byType := make(map[string]model.Insight)
	for _, ins := range insights {
		byType[ins.Type] = ins
	}

	trend, ok := byType["monthly_trend"]
	require.True(t, ok, "expected a monthly_trend insight")
	assert.Equal(t, model.SeverityWarning, trend.Severity)
	assert.Contains(t, trend.Message, "March")
}

func TestGenerateMerchantAnalysis(t *testing.T) {
	b := testutil.NewTxnBuilder(time.Time{})
	var txns []model.Transaction
	// One dominant merchant plus a spread of small ones.
	for day := 1; day <= 10; day++ {
		txns = append(txns, b.On(time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC)).
			At("MegaMart").In("Groceries").Amount(-100).Build())
	}
	txns = append(txns, b.On(time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)).
		At("Corner Store").In("Groceries").Amount(-20).Build())

	insights, err := NewGenerator().Generate(model.FocusMerchantAnalysis, txns, txns)
	require.NoError(t, err)
	require.NotEmpty(t, insights)

	top := insights[0]
	assert.Equal(t, "top_merchant", top.Type)
	assert.Contains(t, top.Message, "MegaMart")
	assert.Equal(t, model.SeverityWarning, top.Severity)
}

func TestGenerateFilteredSubsetScopesInsights(t *testing.T) {
	full := quarterOfSpending()

	var dining []model.Transaction
	for _, txn := range full {
		if txn.Category == "Dining" {
			dining = append(dining, txn)
		}
	}
	require.NotEmpty(t, dining)

	insights, err := NewGenerator().Generate(model.FocusSpendingPatterns, full, dining)
	require.NoError(t, err)

	for _, ins := range insights {
		assert.NotContains(t, ins.Message, "Housing")
		assert.NotContains(t, ins.Message, "Groceries")
	}
}
