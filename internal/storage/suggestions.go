package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spendscope/spendscope/internal/model"
)

// SaveSuggestions persists a batch of suggestions. Existing IDs are
// replaced, which keeps re-running the aggregator idempotent at the
// storage layer too.
func (s *SQLiteStorage) SaveSuggestions(ctx context.Context, suggestions []model.Suggestion) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSuggestions(suggestions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveSuggestionsTx(ctx, tx, suggestions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveSuggestionsTx(ctx context.Context, tx *sql.Tx, suggestions []model.Suggestion) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO suggestions (
			id, run_id, type, title, description, category,
			potential_savings, generated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sg := range suggestions {
		var savings any
		if sg.PotentialSavings != nil {
			savings = *sg.PotentialSavings
		}

		_, err = stmt.ExecContext(ctx,
			sg.ID,
			sg.RunID,
			string(sg.Type),
			sg.Title,
			sg.Description,
			sg.Category,
			savings,
			sg.GeneratedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert suggestion %s: %w", sg.ID, err)
		}
	}

	return nil
}

// GetSuggestions retrieves all suggestions for one run, newest first.
func (s *SQLiteStorage) GetSuggestions(ctx context.Context, runID string) ([]model.Suggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}
	return s.getSuggestionsTx(ctx, s.db, runID)
}

// GetAllSuggestions retrieves every stored suggestion, newest first.
func (s *SQLiteStorage) GetAllSuggestions(ctx context.Context) ([]model.Suggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getSuggestionsTx(ctx, s.db, "")
}

func (s *SQLiteStorage) getSuggestionsTx(ctx context.Context, q queryable, runID string) ([]model.Suggestion, error) {
	query := `
		SELECT id, run_id, type, title, description, category,
		       potential_savings, generated_at
		FROM suggestions
	`
	args := []any{}
	if runID != "" {
		query += " WHERE run_id = ?"
		args = append(args, runID)
	}
	query += " ORDER BY generated_at DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suggestions []model.Suggestion
	for rows.Next() {
		var sg model.Suggestion
		var description sql.NullString
		var savings sql.NullFloat64
		var kind string

		err := rows.Scan(
			&sg.ID,
			&sg.RunID,
			&kind,
			&sg.Title,
			&description,
			&sg.Category,
			&savings,
			&sg.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}

		sg.Type = model.SuggestionType(kind)
		sg.Description = description.String
		if savings.Valid {
			sg.PotentialSavings = &savings.Float64
		}
		suggestions = append(suggestions, sg)
	}

	return suggestions, rows.Err()
}
