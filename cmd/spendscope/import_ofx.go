package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/spendscope/spendscope/internal/cli"
	"github.com/spendscope/spendscope/internal/common"
	"github.com/spendscope/spendscope/internal/model"
	"github.com/spendscope/spendscope/internal/ofx"
	"github.com/spendscope/spendscope/internal/service"
)

func init() {
	importOFXCmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX (Quicken) files exported from your bank.

Examples:
  # Import single file
  spendscope import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory
  spendscope import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	importOFXCmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	rootCmd.AddCommand(importOFXCmd)
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing OFX files",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	// Track all transactions across files
	var allTransactions []model.Transaction
	transactionMap := make(map[string]bool) // For deduplication

	parser := ofx.NewParser()
	bar := progressbar.Default(int64(len(allFiles)), "parsing")

	// Process each file
	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			common.LogError(err, "Failed to open file", common.Fields{"file": filePath})
			_ = bar.Add(1)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		_ = bar.Add(1)

		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": filePath})
			continue
		}

		// Add transactions with deduplication
		added := 0
		for _, tx := range transactions {
			if !transactionMap[tx.Hash] {
				transactionMap[tx.Hash] = true
				allTransactions = append(allTransactions, tx)
				added++
			}
		}

		common.LogInfo("Processed file", common.Fields{
			"file":               filepath.Base(filePath),
			"transactions_found": len(transactions),
			"added":              added,
			"duplicates":         len(transactions) - added,
		})
	}

	if len(allTransactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run complete: %d transactions parsed, nothing saved", len(allTransactions))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// sqlite can report busy under concurrent invocations; retry briefly.
	err = common.WithRetry(ctx, func() error {
		return store.SaveTransactions(ctx, allTransactions)
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %d files", len(allTransactions), len(allFiles))))
	return nil
}
