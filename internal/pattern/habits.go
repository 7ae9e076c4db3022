package pattern

import (
	"sort"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// topMerchantCount limits the merchant ranking in the habit summary.
const topMerchantCount = 10

// AnalyzeHabits aggregates day-to-day spending behavior: spend by category
// and payment method, the most visited merchants, and the weekday versus
// weekend split.
func (d *Detector) AnalyzeHabits(txns []model.Transaction) model.HabitSummary {
	summary := model.HabitSummary{
		SpendByCategory:      make(map[string]float64),
		SpendByPaymentMethod: make(map[string]float64),
	}

	visits := make(map[string]*model.MerchantVisits)
	var weekdaySum, weekendSum, allSum float64
	var weekdayCount, weekendCount, allCount int

	for _, txn := range usable(txns) {
		amt := txn.AbsAmount()
		allSum += amt
		allCount++

		if !txn.IsExpense() {
			continue
		}

		if txn.Category != "" {
			summary.SpendByCategory[txn.Category] += amt
		}
		if txn.PaymentMethod != "" {
			summary.SpendByPaymentMethod[txn.PaymentMethod] += amt
		}

		merchant := txn.MerchantOrDescription()
		if merchant != "" {
			mv := visits[merchant]
			if mv == nil {
				mv = &model.MerchantVisits{Merchant: merchant}
				visits[merchant] = mv
			}
			mv.Visits++
			mv.Total += amt
		}

		switch txn.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekendSum += amt
			weekendCount++
		default:
			weekdaySum += amt
			weekdayCount++
		}
	}

	for _, mv := range visits {
		summary.TopMerchants = append(summary.TopMerchants, *mv)
	}
	sort.Slice(summary.TopMerchants, func(i, j int) bool {
		if summary.TopMerchants[i].Visits != summary.TopMerchants[j].Visits {
			return summary.TopMerchants[i].Visits > summary.TopMerchants[j].Visits
		}
		return summary.TopMerchants[i].Total > summary.TopMerchants[j].Total
	})
	if len(summary.TopMerchants) > topMerchantCount {
		summary.TopMerchants = summary.TopMerchants[:topMerchantCount]
	}

	if weekdayCount > 0 {
		summary.WeekdayAverage = weekdaySum / float64(weekdayCount)
	}
	if weekendCount > 0 {
		summary.WeekendAverage = weekendSum / float64(weekendCount)
	}
	if allCount > 0 {
		summary.AverageTransaction = allSum / float64(allCount)
	}

	return summary
}
