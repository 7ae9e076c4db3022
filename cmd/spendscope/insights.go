package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendscope/spendscope/internal/insight"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/report"
)

func insightsCmd() *cobra.Command {
	query := &transactionQuery{}

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Generate focused insights from stored transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			focus, _ := cmd.Flags().GetString("focus")
			return runInsights(cmd, query, model.Focus(focus))
		},
	}

	cmd.Flags().StringVar(&query.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.category, "category", "", "Restrict insight generation to one category")
	cmd.Flags().StringVar(&query.merchantPattern, "merchant", "", "Restrict insight generation to merchants matching a regex")
	cmd.Flags().String("focus", string(model.FocusOverview), "Analysis focus (Overview, Spending Patterns, Trend Analysis, Merchant Analysis, Predictive Analytics)")

	return cmd
}

func runInsights(cmd *cobra.Command, query *transactionQuery, focus model.Focus) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	full, err := (&transactionQuery{from: query.from, to: query.to}).load(ctx, store)
	if err != nil {
		return err
	}
	filtered, err := query.load(ctx, store)
	if err != nil {
		return err
	}

	insights, err := insight.NewGenerator().Generate(focus, full, filtered)
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Println("No insights for the selected focus and filters.")
		return nil
	}

	fmt.Println(report.NewCLIFormatter().FormatInsights(insights))
	return nil
}
