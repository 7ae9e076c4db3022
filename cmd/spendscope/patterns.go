package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendscope/spendscope/internal/cli"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/pattern"
	"github.com/spendscope/spendscope/internal/report"
)

func patternsCmd() *cobra.Command {
	query := &transactionQuery{}

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Detect recurring charges, spikes, and seasonal spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatterns(cmd, query)
		},
	}

	cmd.Flags().StringVar(&query.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.category, "category", "", "Only consider one category")
	cmd.Flags().StringVar(&query.merchantPattern, "merchant", "", "Only consider merchants matching a regex")

	return cmd
}

func runPatterns(cmd *cobra.Command, query *transactionQuery) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	transactions, err := query.load(ctx, store)
	if err != nil {
		return err
	}

	detector := pattern.NewDetector()
	var patterns []model.Pattern
	patterns = append(patterns, detector.DetectRecurring(transactions)...)
	patterns = append(patterns, detector.DetectSpikes(transactions)...)
	patterns = append(patterns, detector.DetectSeasonal(transactions)...)
	habits := detector.AnalyzeHabits(transactions)

	fmt.Println(cli.FormatTitle("Spending Patterns"))

	formatter := report.NewCLIFormatter()
	if len(patterns) > 0 {
		fmt.Println(formatter.FormatPatterns(patterns))
	}
	fmt.Println(formatter.FormatHabits(&habits))

	summary := detector.Summarize(transactions)
	if len(summary) > 0 {
		fmt.Println(formatter.FormatInsights(summary))
	}

	return nil
}
