package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spendscope/spendscope/internal/cli"
	"github.com/spendscope/spendscope/internal/insight"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/pattern"
	"github.com/spendscope/spendscope/internal/report"
	"github.com/spendscope/spendscope/internal/suggest"
)

func analyzeCmd() *cobra.Command {
	query := &transactionQuery{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis pipeline over stored transactions",
		Long: `Detect spending patterns, generate focused insights, derive savings
suggestions, and record the run. Results are printed as a styled report.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			focus, _ := cmd.Flags().GetString("focus")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			width, _ := cmd.Flags().GetInt("width")
			return runAnalyze(cmd, query, model.Focus(focus), dryRun, width)
		},
	}

	cmd.Flags().StringVar(&query.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.category, "category", "", "Restrict insight generation to one category")
	cmd.Flags().StringVar(&query.merchantPattern, "merchant", "", "Restrict insight generation to merchants matching a regex")
	cmd.Flags().String("focus", string(model.FocusOverview), "Analysis focus (Overview, Spending Patterns, Trend Analysis, Merchant Analysis, Predictive Analytics)")
	cmd.Flags().Bool("dry-run", false, "Analyze without recording the run")
	cmd.Flags().Int("width", 0, "Terminal width for report boxes (0 = default)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, query *transactionQuery, focus model.Focus, dryRun bool, width int) error {
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// The full set feeds pattern detection; the filtered subset scopes
	// insight generation.
	full, err := (&transactionQuery{from: query.from, to: query.to}).load(ctx, store)
	if err != nil {
		return err
	}
	filtered, err := query.load(ctx, store)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	runID := uuid.New().String()

	detector := pattern.NewDetector()
	var patterns []model.Pattern
	patterns = append(patterns, detector.DetectRecurring(full)...)
	patterns = append(patterns, detector.DetectSpikes(full)...)
	patterns = append(patterns, detector.DetectSeasonal(full)...)
	habits := detector.AnalyzeHabits(full)

	insights, err := insight.NewGenerator().Generate(focus, full, filtered)
	if err != nil {
		return err
	}

	// Merge freshly derived suggestions with everything stored before, so
	// repeated runs refine rather than duplicate.
	fresh := suggest.NewBuilder().FromPatterns(patterns, &habits, runID, startedAt)
	stored, err := store.GetAllSuggestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored suggestions: %w", err)
	}
	suggestions := suggest.NewAggregator().Aggregate(append(stored, fresh...))

	run := &model.AnalysisRun{
		ID:           runID,
		Focus:        string(focus),
		Transactions: len(full),
		Patterns:     len(patterns),
		Insights:     len(insights),
		StartedAt:    startedAt,
		CompletedAt:  time.Now(),
	}

	if handler.WasInterrupted() {
		return ctx.Err()
	}

	if !dryRun {
		if err := store.SaveAnalysisRun(ctx, run); err != nil {
			return fmt.Errorf("failed to record analysis run: %w", err)
		}
		if err := store.SaveSuggestions(ctx, suggestions); err != nil {
			return fmt.Errorf("failed to save suggestions: %w", err)
		}
	}

	slog.Info("Analysis complete",
		"run_id", runID,
		"transactions", len(full),
		"patterns", len(patterns),
		"insights", len(insights),
		"suggestions", len(suggestions))

	formatter := report.NewCLIFormatterWithWidth(width)
	fmt.Println(formatter.FormatSummary(&report.Report{
		Run:         run,
		Patterns:    patterns,
		Habits:      &habits,
		Insights:    insights,
		Suggestions: suggestions,
	}))

	return nil
}
