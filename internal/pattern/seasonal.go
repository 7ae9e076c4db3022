package pattern

import (
	"sort"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// season groups calendar months under a label. Seasons are checked in
// declaration order: winter wins over spring, spring over summer, and so on.
type season struct {
	name   string
	months [3]time.Month
}

var seasons = []season{
	{name: "winter", months: [3]time.Month{time.December, time.January, time.February}},
	{name: "spring", months: [3]time.Month{time.March, time.April, time.May}},
	{name: "summer", months: [3]time.Month{time.June, time.July, time.August}},
	{name: "fall", months: [3]time.Month{time.September, time.October, time.November}},
}

// DetectSeasonal finds categories whose spend concentrates in specific
// calendar months. Spend is bucketed by month number across all years
// present, so a category appearing in only one historical December can still
// look seasonal; callers should treat the result as a hint, not a trend.
func (d *Detector) DetectSeasonal(txns []model.Transaction) []model.Pattern {
	byCategory := make(map[string]*[13]float64)
	for _, txn := range usable(txns) {
		if !txn.IsExpense() || txn.Category == "" {
			continue
		}
		buckets := byCategory[txn.Category]
		if buckets == nil {
			buckets = &[13]float64{}
			byCategory[txn.Category] = buckets
		}
		buckets[int(txn.Date.Month())] += txn.AbsAmount()
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var patterns []model.Pattern
	for _, cat := range categories {
		buckets := byCategory[cat]

		var total, max float64
		for m := 1; m <= 12; m++ {
			total += buckets[m]
			if buckets[m] > max {
				max = buckets[m]
			}
		}
		if total == 0 {
			continue
		}

		var peaks []time.Month
		for m := 1; m <= 12; m++ {
			if buckets[m] >= max*peakMonthShare {
				peaks = append(peaks, time.Month(m))
			}
		}

		populated := 0
		for m := 1; m <= 12; m++ {
			if buckets[m] > 0 {
				populated++
			}
		}

		patterns = append(patterns, model.Pattern{
			Type:          model.PatternSeasonal,
			Category:      cat,
			PeakMonths:    peaks,
			Season:        seasonFor(peaks),
			TotalAmount:   total,
			AverageAmount: total / float64(populated),
			Severity:      model.PatternSeverityLow,
		})
	}

	return patterns
}

// seasonFor labels peak months with the highest-priority matching season.
func seasonFor(peaks []time.Month) string {
	for _, s := range seasons {
		for _, sm := range s.months {
			for _, peak := range peaks {
				if peak == sm {
					return s.name
				}
			}
		}
	}
	return ""
}
