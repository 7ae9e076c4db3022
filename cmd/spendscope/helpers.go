package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/config"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/service"
	"github.com/spendscope/spendscope/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/spendscope/spendscope.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// transactionQuery holds the shared filter flags of the analysis commands.
type transactionQuery struct {
	from            string
	to              string
	category        string
	merchantPattern string
}

// load fetches transactions matching the query. The merchant pattern is a
// regular expression applied after the database query.
func (q *transactionQuery) load(ctx context.Context, store service.Storage) ([]model.Transaction, error) {
	filter := service.TransactionFilter{}

	if q.from != "" {
		start, err := time.Parse("2006-01-02", q.from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date %q: %w", q.from, err)
		}
		filter.StartDate = &start
	}
	if q.to != "" {
		end, err := time.Parse("2006-01-02", q.to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date %q: %w", q.to, err)
		}
		filter.EndDate = &end
	}
	filter.Category = q.category

	transactions, err := store.GetTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	if q.merchantPattern != "" {
		var matched []model.Transaction
		for _, txn := range transactions {
			ok, err := common.MatchRegex(q.merchantPattern, txn.Merchant)
			if err != nil {
				return nil, fmt.Errorf("invalid --merchant pattern: %w", err)
			}
			if ok {
				matched = append(matched, txn)
			}
		}
		transactions = matched
	}

	if len(transactions) == 0 {
		return nil, common.NewUserError("no transactions match the given filters; import some with 'spendscope import-ofx'", common.ErrNoTransactions)
	}

	return transactions, nil
}
