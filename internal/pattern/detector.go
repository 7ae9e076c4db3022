// Package pattern detects recurring charges, spending spikes, seasonal
// concentration, and weekday/weekend habits in classified transactions.
package pattern

import (
	"sort"
	"time"

	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/model"
)

// Thresholds used by the detectors.
const (
	// minRecurringOccurrences is the minimum charge count at one merchant
	// before it can be considered recurring.
	minRecurringOccurrences = 3
	// amountTolerance is the allowed deviation from the group mean for a
	// charge to count as "consistent".
	amountTolerance = 0.10
	// spikeThreshold is the multiple of the category's mean monthly total
	// a month must exceed to be flagged as a spike.
	spikeThreshold = 2.5
	// spikeHighRatio promotes a spike to high severity.
	spikeHighRatio = 4.0
	// peakMonthShare is the fraction of the maximum monthly total a month
	// needs to count as a seasonal peak.
	peakMonthShare = 0.8
)

// Detector scans transaction collections for spending patterns. It holds no
// state between invocations; concurrent calls are safe.
type Detector struct{}

// NewDetector creates a new pattern detector.
func NewDetector() *Detector {
	return &Detector{}
}

// usable filters out rows that fail basic validation. Malformed rows are
// skipped with a debug log; the batch as a whole still completes.
func usable(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if err := txn.Validate(); err != nil {
			common.LogDebug("Skipping malformed transaction", common.Fields{"id": txn.ID, "error": err})
			continue
		}
		out = append(out, txn)
	}
	return out
}

// DetectRecurring finds merchants with repeated, stable charges. A merchant
// is recurring only with at least three charges whose amounts lie within 10%
// of their mean; empty or smaller groups emit nothing.
func (d *Detector) DetectRecurring(txns []model.Transaction) []model.Pattern {
	byMerchant := make(map[string][]model.Transaction)
	for _, txn := range usable(txns) {
		if !txn.IsExpense() || txn.Merchant == "" {
			continue
		}
		byMerchant[txn.Merchant] = append(byMerchant[txn.Merchant], txn)
	}

	merchants := make([]string, 0, len(byMerchant))
	for m := range byMerchant {
		merchants = append(merchants, m)
	}
	sort.Strings(merchants)

	var patterns []model.Pattern
	for _, merchant := range merchants {
		group := byMerchant[merchant]
		if len(group) < minRecurringOccurrences {
			continue
		}

		var sum float64
		for _, txn := range group {
			sum += txn.AbsAmount()
		}
		mean := sum / float64(len(group))
		if mean == 0 {
			continue
		}

		// Retain only charges close to the mean.
		var consistent []model.Transaction
		var consistentSum float64
		for _, txn := range group {
			amt := txn.AbsAmount()
			if amt >= mean*(1-amountTolerance) && amt <= mean*(1+amountTolerance) {
				consistent = append(consistent, txn)
				consistentSum += amt
			}
		}
		if len(consistent) < minRecurringOccurrences {
			continue
		}

		sort.Slice(consistent, func(i, j int) bool {
			return consistent[i].Date.Before(consistent[j].Date)
		})

		confidence := float64(len(consistent)) / 10.0
		if confidence > 1.0 {
			confidence = 1.0
		}

		patterns = append(patterns, model.Pattern{
			Type:          model.PatternRecurring,
			Merchant:      merchant,
			Category:      dominantCategory(consistent),
			AverageAmount: consistentSum / float64(len(consistent)),
			TotalAmount:   consistentSum,
			FrequencyDays: meanIntervalDays(consistent),
			Occurrences:   len(consistent),
			Severity:      model.PatternSeverityLow,
			Confidence:    confidence,
		})
	}

	return patterns
}

// meanIntervalDays returns the mean gap in days between consecutive charges.
// Groups with fewer than two dated charges keep a zero frequency; the
// pattern is still emitted.
func meanIntervalDays(txns []model.Transaction) float64 {
	var dates []time.Time
	for _, txn := range txns {
		if !txn.Date.IsZero() {
			dates = append(dates, txn.Date)
		}
	}
	if len(dates) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(dates); i++ {
		total += dates[i].Sub(dates[i-1]).Hours() / 24
	}
	return total / float64(len(dates)-1)
}

// dominantCategory returns the most common category in the group.
func dominantCategory(txns []model.Transaction) string {
	counts := make(map[string]int)
	for _, txn := range txns {
		counts[txn.Category]++
	}
	var best string
	var bestCount int
	for cat, n := range counts {
		if n > bestCount || (n == bestCount && cat < best) {
			best, bestCount = cat, n
		}
	}
	return best
}

// DetectSpikes flags category-months whose total greatly exceeds the
// category's mean monthly total over the rest of the observed window.
// Categories with fewer than two populated months, or with a zero mean, are
// skipped rather than raising.
func (d *Detector) DetectSpikes(txns []model.Transaction) []model.Pattern {
	type monthKey struct {
		year  int
		month time.Month
	}
	totals := make(map[string]map[monthKey]float64)

	for _, txn := range usable(txns) {
		if !txn.IsExpense() || txn.Category == "" {
			continue
		}
		key := monthKey{year: txn.Date.Year(), month: txn.Date.Month()}
		if totals[txn.Category] == nil {
			totals[txn.Category] = make(map[monthKey]float64)
		}
		totals[txn.Category][key] += txn.AbsAmount()
	}

	categories := make([]string, 0, len(totals))
	for cat := range totals {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var patterns []model.Pattern
	for _, cat := range categories {
		months := totals[cat]
		if len(months) < 2 {
			continue
		}

		var sum float64
		for _, total := range months {
			sum += total
		}

		keys := make([]monthKey, 0, len(months))
		for k := range months {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].year != keys[j].year {
				return keys[i].year < keys[j].year
			}
			return keys[i].month < keys[j].month
		})

		for _, k := range keys {
			total := months[k]
			// Baseline is the mean of the other months, so a single
			// outlier does not inflate its own reference point.
			mean := (sum - total) / float64(len(months)-1)
			if mean <= 0 {
				continue
			}
			if total <= mean*spikeThreshold {
				continue
			}

			ratio := total / mean
			severity := model.PatternSeverityMedium
			if ratio > spikeHighRatio {
				severity = model.PatternSeverityHigh
			}

			patterns = append(patterns, model.Pattern{
				Type:          model.PatternSpike,
				Category:      cat,
				TotalAmount:   total,
				AverageAmount: mean,
				SpikeRatio:    ratio,
				Month:         k.month,
				Year:          k.year,
				Severity:      severity,
			})
		}
	}

	return patterns
}
