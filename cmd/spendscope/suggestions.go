package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/report"
	"github.com/spendscope/spendscope/internal/suggest"
)

func suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "List savings suggestions accumulated across analysis runs",
		RunE:  runSuggestions,
	}

	cmd.Flags().String("run", "", "Only show suggestions from one run ID")

	return cmd
}

func runSuggestions(cmd *cobra.Command, _ []string) error {
	runID, _ := cmd.Flags().GetString("run")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	var stored []model.Suggestion
	if runID != "" {
		stored, err = store.GetSuggestions(ctx, runID)
	} else {
		stored, err = store.GetAllSuggestions(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}

	deduped := suggest.NewAggregator().Aggregate(stored)
	if len(deduped) == 0 {
		fmt.Println("No suggestions recorded yet. Run 'spendscope analyze' first.")
		return nil
	}

	fmt.Println(report.NewCLIFormatter().FormatSuggestions(deduped))
	return nil
}
