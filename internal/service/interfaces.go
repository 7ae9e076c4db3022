// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/spendscope/spendscope/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Merchant  string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactionsByCategory(ctx context.Context, category string) ([]model.Transaction, error)
	GetExpensesByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	GetIncomeByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error)

	// Analysis run operations
	SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error
	GetAnalysisRun(ctx context.Context, id string) (*model.AnalysisRun, error)
	GetLatestAnalysisRun(ctx context.Context) (*model.AnalysisRun, error)

	// Suggestion operations
	SaveSuggestions(ctx context.Context, suggestions []model.Suggestion) error
	GetSuggestions(ctx context.Context, runID string) ([]model.Suggestion, error)
	GetAllSuggestions(ctx context.Context) ([]model.Suggestion, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
