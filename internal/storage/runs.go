package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/model"
)

// SaveAnalysisRun records one completed analysis invocation.
func (s *SQLiteStorage) SaveAnalysisRun(ctx context.Context, run *model.AnalysisRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAnalysisRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveAnalysisRunTx(ctx, tx, run); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveAnalysisRunTx(ctx context.Context, tx *sql.Tx, run *model.AnalysisRun) error {
	var completedAt any
	if !run.CompletedAt.IsZero() {
		completedAt = run.CompletedAt
	}

	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_runs (
			id, focus, transaction_count, pattern_count, insight_count,
			started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Focus, run.Transactions, run.Patterns, run.Insights,
		run.StartedAt, completedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis run %s: %w", run.ID, err)
	}
	return nil
}

// GetAnalysisRun retrieves a run by ID.
func (s *SQLiteStorage) GetAnalysisRun(ctx context.Context, id string) (*model.AnalysisRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getAnalysisRunTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getAnalysisRunTx(ctx context.Context, q queryable, id string) (*model.AnalysisRun, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, focus, transaction_count, pattern_count, insight_count,
		       started_at, completed_at
		FROM analysis_runs WHERE id = ?
	`, id)

	run, err := scanAnalysisRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("analysis run %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// GetLatestAnalysisRun retrieves the most recently started run.
func (s *SQLiteStorage) GetLatestAnalysisRun(ctx context.Context) (*model.AnalysisRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getLatestAnalysisRunTx(ctx, s.db)
}

func (s *SQLiteStorage) getLatestAnalysisRunTx(ctx context.Context, q queryable) (*model.AnalysisRun, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, focus, transaction_count, pattern_count, insight_count,
		       started_at, completed_at
		FROM analysis_runs ORDER BY started_at DESC LIMIT 1
	`)

	run, err := scanAnalysisRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no analysis runs recorded: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest analysis run: %w", err)
	}
	return run, nil
}

func scanAnalysisRun(row rowScanner) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	var completedAt sql.NullTime

	err := row.Scan(
		&run.ID,
		&run.Focus,
		&run.Transactions,
		&run.Patterns,
		&run.Insights,
		&run.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = completedAt.Time
	}
	return &run, nil
}
