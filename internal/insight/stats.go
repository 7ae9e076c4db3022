package insight

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// monthTotal is one calendar month's aggregated amount.
type monthTotal struct {
	year  int
	month time.Month
	total float64
}

// stats holds every aggregate the candidate tables draw from, computed once
// per generation call. All monetary aggregates use absolute amounts.
type stats struct {
	filtered []model.Transaction
	full     []model.Transaction

	totalIncome  float64
	totalExpense float64
	incomeCount  int
	expenseCount int

	expenseByCategory map[string]float64
	countByCategory   map[string]int
	amountsByCategory map[string][]float64

	expenseByMerchant map[string]float64
	visitsByMerchant  map[string]int
	merchantMonthly   map[string][]monthTotal

	weekdaySpend [7]float64

	monthlyExpense []monthTotal
	monthlyIncome  []monthTotal

	firstDate time.Time
	lastDate  time.Time
}

func newStats(full, filtered []model.Transaction) *stats {
	s := &stats{
		full:              full,
		expenseByCategory: make(map[string]float64),
		countByCategory:   make(map[string]int),
		amountsByCategory: make(map[string][]float64),
		expenseByMerchant: make(map[string]float64),
		visitsByMerchant:  make(map[string]int),
		merchantMonthly:   make(map[string][]monthTotal),
	}

	expenseMonths := make(map[[2]int]float64)
	incomeMonths := make(map[[2]int]float64)
	merchantMonths := make(map[string]map[[2]int]float64)

	for _, txn := range filtered {
		if err := txn.Validate(); err != nil {
			slog.Debug("Skipping malformed transaction", "id", txn.ID, "error", err)
			continue
		}
		s.filtered = append(s.filtered, txn)

		if s.firstDate.IsZero() || txn.Date.Before(s.firstDate) {
			s.firstDate = txn.Date
		}
		if txn.Date.After(s.lastDate) {
			s.lastDate = txn.Date
		}

		amt := txn.AbsAmount()
		mk := [2]int{txn.Date.Year(), int(txn.Date.Month())}

		if txn.IsIncome() {
			s.totalIncome += amt
			s.incomeCount++
			incomeMonths[mk] += amt
			continue
		}
		if !txn.IsExpense() {
			continue
		}

		s.totalExpense += amt
		s.expenseCount++
		expenseMonths[mk] += amt
		s.weekdaySpend[int(txn.Date.Weekday())] += amt

		if txn.Category != "" {
			s.expenseByCategory[txn.Category] += amt
			s.countByCategory[txn.Category]++
			s.amountsByCategory[txn.Category] = append(s.amountsByCategory[txn.Category], amt)
		}

		merchant := txn.MerchantOrDescription()
		if merchant != "" {
			s.expenseByMerchant[merchant] += amt
			s.visitsByMerchant[merchant]++
			if merchantMonths[merchant] == nil {
				merchantMonths[merchant] = make(map[[2]int]float64)
			}
			merchantMonths[merchant][mk] += amt
		}
	}

	s.monthlyExpense = sortedMonths(expenseMonths)
	s.monthlyIncome = sortedMonths(incomeMonths)
	for merchant, months := range merchantMonths {
		s.merchantMonthly[merchant] = sortedMonths(months)
	}

	return s
}

func sortedMonths(totals map[[2]int]float64) []monthTotal {
	out := make([]monthTotal, 0, len(totals))
	for k, total := range totals {
		out = append(out, monthTotal{year: k[0], month: time.Month(k[1]), total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].month < out[j].month
	})
	return out
}

// windowDays is the inclusive span of the filtered subset in days.
func (s *stats) windowDays() int {
	if s.firstDate.IsZero() {
		return 0
	}
	return int(s.lastDate.Sub(s.firstDate).Hours()/24) + 1
}

// topCategories returns expense categories ordered by descending spend.
func (s *stats) topCategories() []string {
	cats := make([]string, 0, len(s.expenseByCategory))
	for cat := range s.expenseByCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if s.expenseByCategory[cats[i]] != s.expenseByCategory[cats[j]] {
			return s.expenseByCategory[cats[i]] > s.expenseByCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}

// topMerchants returns merchants ordered by descending spend.
func (s *stats) topMerchants() []string {
	merchants := make([]string, 0, len(s.expenseByMerchant))
	for m := range s.expenseByMerchant {
		merchants = append(merchants, m)
	}
	sort.Slice(merchants, func(i, j int) bool {
		if s.expenseByMerchant[merchants[i]] != s.expenseByMerchant[merchants[j]] {
			return s.expenseByMerchant[merchants[i]] > s.expenseByMerchant[merchants[j]]
		}
		return merchants[i] < merchants[j]
	})
	return merchants
}

// stddev computes the population standard deviation.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// slope fits a least-squares line over y-values at x = 0, 1, 2, ... and
// returns its slope. Degenerate inputs yield zero.
func slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
