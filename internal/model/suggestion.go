package model

import (
	"fmt"
	"time"
)

// SuggestionType identifies the origin kind of a suggestion.
type SuggestionType string

// Suggestion type constants.
const (
	SuggestionBudget    SuggestionType = "budget_recommendation"
	SuggestionReduction SuggestionType = "spending_reduction"
	SuggestionSavings   SuggestionType = "savings_opportunity"
)

// Suggestion is a recommended action produced by an analysis run. Multiple
// independent runs may produce near-identical suggestions; the aggregator
// collapses them by normalized content.
type Suggestion struct {
	GeneratedAt      time.Time
	ID               string // Derived from the content fingerprint after dedup
	Title            string
	Description      string
	Category         string
	RunID            string
	Type             SuggestionType
	PotentialSavings *float64
}

// Validate reports whether the suggestion carries the fields required for
// aggregation. Malformed suggestions are excluded from output, not fatal.
func (s *Suggestion) Validate() error {
	if s.Title == "" {
		return fmt.Errorf("suggestion title is required")
	}
	if s.Category == "" {
		return fmt.Errorf("suggestion category is required")
	}
	switch s.Type {
	case SuggestionBudget, SuggestionReduction, SuggestionSavings:
	default:
		return fmt.Errorf("unknown suggestion type %q", s.Type)
	}
	return nil
}

// AnalysisRun records one completed analysis invocation.
type AnalysisRun struct {
	StartedAt    time.Time
	CompletedAt  time.Time
	ID           string
	Focus        string
	Transactions int
	Patterns     int
	Insights     int
}
