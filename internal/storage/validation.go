// Package storage provides the data persistence layer for the spendscope application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRun         = errors.New("invalid analysis run")
	ErrInvalidSuggestion  = errors.New("invalid suggestion")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePeriod ensures a date range is ordered.
func validatePeriod(start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, start, end)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("transaction at index %d: %w: %v", i, ErrInvalidTransaction, err)
		}
	}
	return nil
}

// validateAnalysisRun validates an analysis run record.
func validateAnalysisRun(run *model.AnalysisRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRun)
	}
	if strings.TrimSpace(run.Focus) == "" {
		return fmt.Errorf("%w: missing focus", ErrInvalidRun)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	return nil
}

// validateSuggestions validates a slice of suggestions.
func validateSuggestions(suggestions []model.Suggestion) error {
	if suggestions == nil {
		return fmt.Errorf("%w: suggestions", ErrNilParameter)
	}

	for i, s := range suggestions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("suggestion at index %d: %w", i, err)
		}
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("suggestion at index %d: %w: missing ID", i, ErrInvalidSuggestion)
		}
	}
	return nil
}
