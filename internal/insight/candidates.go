package insight

import (
	"fmt"
	"math"
	"time"

	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/pattern"
)

// Severity thresholds for the candidate tables. Each candidate applies one
// fixed magnitude rule; the engine never adjusts severities.
const (
	expenseRatioWarn      = 80.0
	averageGapWarn        = 50.0
	topCategoryWarn       = 40.0
	concentrationWarn     = 70.0
	weekdayPeakRatio      = 1.5
	monthlyTrendWarn      = 20.0
	monthlyTrendGood      = -10.0
	accelerationWarnShare = 0.10
	incomeCVWarn          = 25.0
	recentPaceRatio       = 1.5
	topMerchantWarn       = 25.0
	merchantConcWarn      = 60.0
	risingMerchantRatio   = 2.0
	projectionWarnRatio   = 1.2
	forecastWarnRatio     = 1.5
)

// overviewCandidates summarizes cash flow and activity for the whole subset.
var overviewCandidates = []candidate{
	{
		tag: "net_cash_flow",
		build: func(s *stats) (model.Insight, bool) {
			if s.totalIncome == 0 && s.totalExpense == 0 {
				return model.Insight{}, false
			}
			net := s.totalIncome - s.totalExpense
			severity := model.SeverityWarning
			if net > 0 {
				severity = model.SeveritySuccess
			}
			return model.Insight{
				Message: fmt.Sprintf("Net cash flow is $%.2f (income $%.2f against expenses $%.2f)",
					net, s.totalIncome, s.totalExpense),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "expense_ratio",
		build: func(s *stats) (model.Insight, bool) {
			if s.totalIncome == 0 {
				return model.Insight{}, false
			}
			ratio := s.totalExpense / s.totalIncome * 100
			severity := model.SeverityInfo
			if ratio > expenseRatioWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message:  fmt.Sprintf("Expenses consume %.1f%% of income", ratio),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "daily_activity",
		build: func(s *stats) (model.Insight, bool) {
			days := s.windowDays()
			if days == 0 || len(s.filtered) == 0 {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("Averaging %.1f transactions per day across %d days",
					float64(len(s.filtered))/float64(days), days),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "transaction_split",
		build: func(s *stats) (model.Insight, bool) {
			if s.expenseCount == 0 && s.incomeCount == 0 {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("%d expense transactions against %d income transactions",
					s.expenseCount, s.incomeCount),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "average_gap",
		build: func(s *stats) (model.Insight, bool) {
			if s.expenseCount == 0 || s.incomeCount == 0 {
				return model.Insight{}, false
			}
			avgExpense := s.totalExpense / float64(s.expenseCount)
			avgIncome := s.totalIncome / float64(s.incomeCount)
			if avgIncome == 0 {
				return model.Insight{}, false
			}
			gap := math.Abs(avgIncome-avgExpense) / avgIncome * 100
			severity := model.SeverityInfo
			if gap > averageGapWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("Average expense $%.2f against average income deposit $%.2f (%.1f%% gap)",
					avgExpense, avgIncome, gap),
				Severity: severity,
			}, true
		},
	},
}

// spendingCandidates examines how expenses distribute across categories and
// days of the week.
var spendingCandidates = []candidate{
	{
		tag: "top_category",
		build: func(s *stats) (model.Insight, bool) {
			if s.totalExpense == 0 || len(s.expenseByCategory) == 0 {
				return model.Insight{}, false
			}
			top := s.topCategories()[0]
			share := s.expenseByCategory[top] / s.totalExpense * 100
			severity := model.SeverityInfo
			if share > topCategoryWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("%s is the top spending category at $%.2f (%.1f%% of expenses)",
					top, s.expenseByCategory[top], share),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "frequent_category",
		build: func(s *stats) (model.Insight, bool) {
			cats := s.topCategories()
			if len(cats) < 2 {
				return model.Insight{}, false
			}
			top := cats[0]
			var frequent string
			var visits int
			for cat, n := range s.countByCategory {
				if cat == top {
					continue
				}
				if n > visits || (n == visits && cat < frequent) {
					frequent, visits = cat, n
				}
			}
			if frequent == "" {
				return model.Insight{}, false
			}
			avg := s.expenseByCategory[frequent] / float64(visits)
			return model.Insight{
				Message: fmt.Sprintf("%s shows up most often: %d purchases averaging $%.2f",
					frequent, visits, avg),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "weekday_peak",
		build: func(s *stats) (model.Insight, bool) {
			var total float64
			populated := 0
			for _, spend := range s.weekdaySpend {
				total += spend
				if spend > 0 {
					populated++
				}
			}
			if populated < 2 {
				return model.Insight{}, false
			}
			avg := total / float64(populated)

			peakDay := -1
			var peakSpend float64
			for day, spend := range s.weekdaySpend {
				if spend > avg*weekdayPeakRatio && spend > peakSpend {
					peakDay, peakSpend = day, spend
				}
			}
			if peakDay < 0 {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("%ss carry $%.2f of spending, %.1fx the cross-day average",
					time.Weekday(peakDay), peakSpend, peakSpend/avg),
				Severity: model.SeverityWarning,
			}, true
		},
	},
	{
		tag: "concentration",
		build: func(s *stats) (model.Insight, bool) {
			cats := s.topCategories()
			if len(cats) <= 3 || s.totalExpense == 0 {
				return model.Insight{}, false
			}
			var top3 float64
			for _, cat := range cats[:3] {
				top3 += s.expenseByCategory[cat]
			}
			share := top3 / s.totalExpense * 100
			severity := model.SeverityInfo
			if share > concentrationWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("Top 3 categories (%s, %s, %s) account for %.1f%% of spending",
					cats[0], cats[1], cats[2], share),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "volatile_category",
		build: func(s *stats) (model.Insight, bool) {
			var volatile string
			var maxDev float64
			for cat, amounts := range s.amountsByCategory {
				dev := stddev(amounts)
				if dev > maxDev || (dev == maxDev && dev > 0 && cat < volatile) {
					volatile, maxDev = cat, dev
				}
			}
			if volatile == "" || maxDev == 0 {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("%s purchases vary the most, with a $%.2f standard deviation around a $%.2f average",
					volatile, maxDev, mean(s.amountsByCategory[volatile])),
				Severity: model.SeverityInfo,
			}, true
		},
	},
}

// trendCandidates looks at the direction of monthly totals over the window.
var trendCandidates = []candidate{
	{
		tag: "monthly_trend",
		build: func(s *stats) (model.Insight, bool) {
			months := s.monthlyExpense
			if len(months) < 2 {
				return model.Insight{}, false
			}
			prev := months[len(months)-2]
			last := months[len(months)-1]
			if prev.total == 0 {
				return model.Insight{}, false
			}
			change := (last.total - prev.total) / prev.total * 100

			severity := model.SeverityInfo
			direction := "held steady at"
			switch {
			case change > monthlyTrendWarn:
				severity = model.SeverityWarning
				direction = "rose to"
			case change < monthlyTrendGood:
				severity = model.SeveritySuccess
				direction = "fell to"
			case change > 0:
				direction = "rose to"
			case change < 0:
				direction = "fell to"
			}
			return model.Insight{
				Message: fmt.Sprintf("Spending %s $%.2f in %s %d, a %.1f%% change from the month before",
					direction, last.total, last.month, last.year, change),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "spending_acceleration",
		build: func(s *stats) (model.Insight, bool) {
			months := s.monthlyExpense
			if len(months) < 3 {
				return model.Insight{}, false
			}
			totals := make([]float64, len(months))
			for i, m := range months {
				totals[i] = m.total
			}
			trend := slope(totals)
			avg := mean(totals)
			if avg == 0 {
				return model.Insight{}, false
			}

			severity := model.SeverityInfo
			direction := "falling"
			if trend > 0 {
				direction = "climbing"
				if trend > avg*accelerationWarnShare {
					severity = model.SeverityWarning
				}
			}
			return model.Insight{
				Message: fmt.Sprintf("Monthly spending is %s by $%.2f per month across %d months",
					direction, math.Abs(trend), len(months)),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "income_stability",
		build: func(s *stats) (model.Insight, bool) {
			months := s.monthlyIncome
			if len(months) < 2 {
				return model.Insight{}, false
			}
			totals := make([]float64, len(months))
			for i, m := range months {
				totals[i] = m.total
			}
			avg := mean(totals)
			if avg == 0 {
				return model.Insight{}, false
			}
			cv := stddev(totals) / avg * 100

			severity := model.SeveritySuccess
			label := "steady"
			if cv > incomeCVWarn {
				severity = model.SeverityWarning
				label = "irregular"
			}
			return model.Insight{
				Message: fmt.Sprintf("Income is %s: monthly deposits average $%.2f with %.1f%% variation",
					label, avg, cv),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "largest_swing",
		build: func(s *stats) (model.Insight, bool) {
			months := s.monthlyExpense
			if len(months) < 3 {
				return model.Insight{}, false
			}
			var swingIdx int
			var swing float64
			for i := 1; i < len(months); i++ {
				delta := math.Abs(months[i].total - months[i-1].total)
				if delta > swing {
					swing, swingIdx = delta, i
				}
			}
			if swing == 0 {
				return model.Insight{}, false
			}
			m := months[swingIdx]
			return model.Insight{
				Message: fmt.Sprintf("The biggest month-over-month swing was $%.2f, landing in %s %d",
					swing, m.month, m.year),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "recent_pace",
		build: func(s *stats) (model.Insight, bool) {
			days := s.windowDays()
			if days < 14 || s.totalExpense == 0 {
				return model.Insight{}, false
			}
			cutoff := s.lastDate.AddDate(0, 0, -7)
			var recent float64
			for _, txn := range s.filtered {
				if txn.IsExpense() && txn.Date.After(cutoff) {
					recent += txn.AbsAmount()
				}
			}
			overallDaily := s.totalExpense / float64(days)
			if overallDaily == 0 {
				return model.Insight{}, false
			}
			recentDaily := recent / 7
			ratio := recentDaily / overallDaily

			severity := model.SeverityInfo
			if ratio > recentPaceRatio {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("The last week averaged $%.2f per day, %.1fx the $%.2f window average",
					recentDaily, ratio, overallDaily),
				Severity: severity,
			}, true
		},
	},
}

// merchantCandidates ranks where the money actually goes.
var merchantCandidates = []candidate{
	{
		tag: "top_merchant",
		build: func(s *stats) (model.Insight, bool) {
			if s.totalExpense == 0 || len(s.expenseByMerchant) == 0 {
				return model.Insight{}, false
			}
			top := s.topMerchants()[0]
			share := s.expenseByMerchant[top] / s.totalExpense * 100
			severity := model.SeverityInfo
			if share > topMerchantWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("%s received $%.2f, %.1f%% of all spending",
					top, s.expenseByMerchant[top], share),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "frequent_merchant",
		build: func(s *stats) (model.Insight, bool) {
			var frequent string
			var visits int
			for merchant, n := range s.visitsByMerchant {
				if n > visits || (n == visits && merchant < frequent) {
					frequent, visits = merchant, n
				}
			}
			if visits < 2 {
				return model.Insight{}, false
			}
			avg := s.expenseByMerchant[frequent] / float64(visits)
			return model.Insight{
				Message: fmt.Sprintf("%s is the most visited merchant: %d purchases averaging $%.2f",
					frequent, visits, avg),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "merchant_concentration",
		build: func(s *stats) (model.Insight, bool) {
			merchants := s.topMerchants()
			if len(merchants) <= 5 || s.totalExpense == 0 {
				return model.Insight{}, false
			}
			var top5 float64
			for _, m := range merchants[:5] {
				top5 += s.expenseByMerchant[m]
			}
			share := top5 / s.totalExpense * 100
			severity := model.SeverityInfo
			if share > merchantConcWarn {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("The top 5 merchants take %.1f%% of spending across %d merchants",
					share, len(merchants)),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "repeat_rate",
		build: func(s *stats) (model.Insight, bool) {
			if s.expenseCount == 0 {
				return model.Insight{}, false
			}
			repeat := 0
			for _, n := range s.visitsByMerchant {
				if n >= 2 {
					repeat += n
				}
			}
			rate := float64(repeat) / float64(s.expenseCount) * 100
			return model.Insight{
				Message: fmt.Sprintf("%.1f%% of purchases happen at repeat merchants",
					rate),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "rising_merchant",
		build: func(s *stats) (model.Insight, bool) {
			var rising string
			var ratio, latest float64
			for merchant, months := range s.merchantMonthly {
				if len(months) < 3 {
					continue
				}
				var priorSum float64
				for _, m := range months[:len(months)-1] {
					priorSum += m.total
				}
				priorMean := priorSum / float64(len(months)-1)
				if priorMean == 0 {
					continue
				}
				last := months[len(months)-1].total
				r := last / priorMean
				if r > risingMerchantRatio && r > ratio {
					rising, ratio, latest = merchant, r, last
				}
			}
			if rising == "" {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("%s jumped to $%.2f in the latest month, %.1fx its usual monthly total",
					rising, latest, ratio),
				Severity: model.SeverityWarning,
			}, true
		},
	},
}

// predictiveCandidates projects the rest of the current month from the pace
// so far and from recurring commitments.
var predictiveCandidates = []candidate{
	{
		tag: "projected_spend",
		build: func(s *stats) (model.Insight, bool) {
			projected, ok := projectCurrentMonth(s.monthlyExpense, s.lastDate)
			if !ok {
				return model.Insight{}, false
			}
			prior := s.monthlyExpense[:len(s.monthlyExpense)-1]
			var priorSum float64
			for _, m := range prior {
				priorSum += m.total
			}
			priorMean := priorSum / float64(len(prior))
			if priorMean == 0 {
				return model.Insight{}, false
			}

			severity := model.SeverityInfo
			if projected > priorMean*projectionWarnRatio {
				severity = model.SeverityWarning
			}
			return model.Insight{
				Message: fmt.Sprintf("On the current pace, %s %d will close at $%.2f against a $%.2f monthly average",
					s.lastDate.Month(), s.lastDate.Year(), projected, priorMean),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "projected_net",
		build: func(s *stats) (model.Insight, bool) {
			expense, okExpense := projectCurrentMonth(s.monthlyExpense, s.lastDate)
			income, okIncome := projectCurrentMonth(s.monthlyIncome, s.lastDate)
			if !okExpense && !okIncome {
				return model.Insight{}, false
			}
			net := income - expense
			severity := model.SeverityWarning
			if net > 0 {
				severity = model.SeveritySuccess
			}
			return model.Insight{
				Message: fmt.Sprintf("Projected net flow for %s %d is $%.2f",
					s.lastDate.Month(), s.lastDate.Year(), net),
				Severity: severity,
			}, true
		},
	},
	{
		tag: "recurring_commitment",
		build: func(s *stats) (model.Insight, bool) {
			recurring := pattern.NewDetector().DetectRecurring(s.filtered)
			if len(recurring) == 0 {
				return model.Insight{}, false
			}
			var monthly float64
			for _, p := range recurring {
				if p.FrequencyDays > 0 {
					monthly += p.AverageAmount * (30 / p.FrequencyDays)
				} else {
					monthly += p.AverageAmount
				}
			}
			return model.Insight{
				Message: fmt.Sprintf("%d recurring charges commit roughly $%.2f per month before any discretionary spending",
					len(recurring), monthly),
				Severity: model.SeverityInfo,
			}, true
		},
	},
	{
		tag: "category_forecast",
		build: func(s *stats) (model.Insight, bool) {
			if s.lastDate.IsZero() {
				return model.Insight{}, false
			}
			curYear, curMonth := s.lastDate.Year(), s.lastDate.Month()

			var worst string
			var worstRatio, worstProjected, worstMean float64
			for cat := range s.expenseByCategory {
				months := categoryMonths(s.filtered, cat)
				projected, ok := projectCurrentMonth(months, s.lastDate)
				if !ok {
					continue
				}
				last := months[len(months)-1]
				if last.year != curYear || last.month != curMonth {
					continue
				}
				var priorSum float64
				for _, m := range months[:len(months)-1] {
					priorSum += m.total
				}
				priorMean := priorSum / float64(len(months)-1)
				if priorMean == 0 {
					continue
				}
				ratio := projected / priorMean
				if ratio > forecastWarnRatio && ratio > worstRatio {
					worst, worstRatio = cat, ratio
					worstProjected, worstMean = projected, priorMean
				}
			}
			if worst == "" {
				return model.Insight{}, false
			}
			return model.Insight{
				Message: fmt.Sprintf("%s is tracking toward $%.2f this month, %.1fx its usual $%.2f",
					worst, worstProjected, worstRatio, worstMean),
				Severity: model.SeverityWarning,
			}, true
		},
	},
	{
		tag: "savings_runway",
		build: func(s *stats) (model.Insight, bool) {
			if len(s.monthlyExpense) < 2 && len(s.monthlyIncome) < 2 {
				return model.Insight{}, false
			}
			net := make(map[[2]int]float64)
			for _, m := range s.monthlyIncome {
				net[[2]int{m.year, int(m.month)}] += m.total
			}
			for _, m := range s.monthlyExpense {
				net[[2]int{m.year, int(m.month)}] -= m.total
			}
			if len(net) < 2 {
				return model.Insight{}, false
			}
			var sum float64
			for _, v := range net {
				sum += v
			}
			avg := sum / float64(len(net))

			if avg > 0 {
				return model.Insight{
					Message: fmt.Sprintf("Saving $%.2f per month on average across %d months",
						avg, len(net)),
					Severity: model.SeveritySuccess,
				}, true
			}
			return model.Insight{
				Message: fmt.Sprintf("Spending outpaces income by $%.2f per month on average across %d months",
					-avg, len(net)),
				Severity: model.SeverityWarning,
			}, true
		},
	},
}

// projectCurrentMonth extrapolates the latest month's total to a full month
// using the daily pace up to lastDate. It needs at least one prior month as
// a baseline and the latest bucket must be the month lastDate falls in.
func projectCurrentMonth(months []monthTotal, lastDate time.Time) (float64, bool) {
	if len(months) < 2 || lastDate.IsZero() {
		return 0, false
	}
	last := months[len(months)-1]
	if last.year != lastDate.Year() || last.month != lastDate.Month() {
		return 0, false
	}
	elapsed := lastDate.Day()
	if elapsed == 0 {
		return 0, false
	}
	daysInMonth := time.Date(last.year, last.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return last.total / float64(elapsed) * float64(daysInMonth), true
}

// categoryMonths buckets one category's expense totals by calendar month.
func categoryMonths(txns []model.Transaction, category string) []monthTotal {
	totals := make(map[[2]int]float64)
	for _, txn := range txns {
		if txn.IsExpense() && txn.Category == category {
			totals[[2]int{txn.Date.Year(), int(txn.Date.Month())}] += txn.AbsAmount()
		}
	}
	return sortedMonths(totals)
}
