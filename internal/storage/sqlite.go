package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}
	return t.storage.saveTransactionsTx(ctx, t.tx, transactions)
}

func (t *sqliteTransaction) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getTransactionsTx(ctx, t.tx, filter)
}

func (t *sqliteTransaction) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getTransactionByIDTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetTransactionsByCategory(ctx context.Context, categoryName string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(categoryName, "categoryName"); err != nil {
		return nil, err
	}
	return t.storage.getTransactionsByCategoryTx(ctx, t.tx, categoryName)
}

func (t *sqliteTransaction) GetExpensesByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	return t.storage.getByPeriodTx(ctx, t.tx, start, end, false)
}

func (t *sqliteTransaction) GetIncomeByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	return t.storage.getByPeriodTx(ctx, t.tx, start, end, true)
}

func (t *sqliteTransaction) SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysisRun(run); err != nil {
		return err
	}
	return t.storage.saveAnalysisRunTx(ctx, t.tx, run)
}

func (t *sqliteTransaction) GetAnalysisRun(ctx context.Context, id string) (*model.AnalysisRun, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getAnalysisRunTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) GetLatestAnalysisRun(ctx context.Context) (*model.AnalysisRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getLatestAnalysisRunTx(ctx, t.tx)
}

func (t *sqliteTransaction) SaveSuggestions(ctx context.Context, suggestions []model.Suggestion) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSuggestions(suggestions); err != nil {
		return err
	}
	return t.storage.saveSuggestionsTx(ctx, t.tx, suggestions)
}

func (t *sqliteTransaction) GetSuggestions(ctx context.Context, runID string) ([]model.Suggestion, error) {
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}
	return t.storage.getSuggestionsTx(ctx, t.tx, runID)
}

func (t *sqliteTransaction) GetAllSuggestions(ctx context.Context) ([]model.Suggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.storage.getSuggestionsTx(ctx, t.tx, "")
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
