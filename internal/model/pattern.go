package model

import "time"

// PatternType identifies the kind of spending pattern a detector found.
type PatternType string

// Pattern type constants.
const (
	PatternRecurring PatternType = "recurring"
	PatternSpike     PatternType = "spike"
	PatternSeasonal  PatternType = "seasonal"
	PatternHabit     PatternType = "habit"
)

// PatternSeverity grades how notable a detected pattern is.
type PatternSeverity string

// Pattern severity constants.
const (
	PatternSeverityLow    PatternSeverity = "low"
	PatternSeverityMedium PatternSeverity = "medium"
	PatternSeverityHigh   PatternSeverity = "high"
)

// Pattern represents a detected spending pattern. Patterns are derived fresh
// on every detector invocation and are never persisted by the core.
type Pattern struct {
	Type     PatternType
	Category string
	Merchant string // Set for recurring patterns only

	// Numeric descriptors; zero values mean "not applicable" for the type.
	AverageAmount float64
	TotalAmount   float64
	FrequencyDays float64 // Mean days between recurring charges; 0 when unknown
	SpikeRatio    float64
	Month         time.Month // Spike month
	Year          int        // Spike year
	PeakMonths    []time.Month
	Season        string
	Occurrences   int

	Severity   PatternSeverity
	Confidence float64
}

// HabitSummary aggregates day-to-day spending habits over a transaction set.
type HabitSummary struct {
	SpendByCategory      map[string]float64
	SpendByPaymentMethod map[string]float64
	TopMerchants         []MerchantVisits
	WeekdayAverage       float64
	WeekendAverage       float64
	AverageTransaction   float64
}

// MerchantVisits ranks a merchant by visit frequency.
type MerchantVisits struct {
	Merchant string
	Visits   int
	Total    float64
}
