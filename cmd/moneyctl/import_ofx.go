package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/model"
	"github.com/mymoneyhq/moneyctl/internal/ofx"
)

func importCmd() *cobra.Command {
	var (
		incomeCategory  string
		expenseCategory string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX bank exports",
		Long: `Parse OFX or QFX (Quicken) files exported from your bank and record the
transactions through the Money Manager API. Credits become incomes, debits
become expenses; amounts are recorded as positive values.

Every imported record needs a category: pass --income-category and/or
--expense-category with category IDs from 'moneyctl categories list'.

Examples:
  # Preview without recording anything
  moneyctl import --dry-run ~/Downloads/checking_jan.qfx

  # Import expenses only
  moneyctl import --expense-category cat-42 ~/Downloads/checking_*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Expand globs and collect all files
			var allFiles []string
			for _, pattern := range args {
				matches, err := filepath.Glob(pattern)
				if err != nil {
					return fmt.Errorf("invalid pattern %s: %w", pattern, err)
				}
				if len(matches) == 0 {
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

			parser := ofx.NewParser()
			var candidates []ofx.Candidate
			for _, filePath := range allFiles {
				f, err := os.Open(filePath)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", filePath, err)
				}
				parsed, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", filepath.Base(filePath), err)
				}
				candidates = append(candidates, parsed...)
			}

			// Keep only the types we have a category for.
			categoryFor := map[model.TransactionType]string{}
			if incomeCategory != "" {
				categoryFor[model.TypeIncome] = incomeCategory
			}
			if expenseCategory != "" {
				categoryFor[model.TypeExpense] = expenseCategory
			}
			if len(categoryFor) == 0 && !dryRun {
				return fmt.Errorf("pass --income-category and/or --expense-category to record transactions")
			}

			if dryRun {
				for _, cand := range candidates {
					fmt.Printf("%s  %-10s %-30s %.2f\n", cand.Date, cand.Type, cand.Name, cand.Amount)
				}
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Dry run: %d transactions parsed, nothing recorded.", len(candidates))))
				return nil
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(candidates),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Importing transactions..."),
			)

			var created, skipped, failed int
			for _, cand := range candidates {
				_ = bar.Add(1)

				categoryID, ok := categoryFor[cand.Type]
				if !ok {
					skipped++
					continue
				}

				record := model.NewTransaction{
					Name:       cand.Name,
					Amount:     cand.Amount,
					Date:       cand.Date,
					CategoryID: categoryID,
					Type:       cand.Type,
				}
				if err := record.Validate(); err != nil {
					slog.Warn("Skipping invalid statement line", "name", cand.Name, "error", err)
					skipped++
					continue
				}

				if _, err := client.CreateTransaction(ctx, record); err != nil {
					slog.Warn("Failed to record transaction", "name", cand.Name, "error", err)
					failed++
					continue
				}
				created++
			}
			fmt.Fprintln(os.Stderr)

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d transactions", created)))
			if skipped > 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d skipped (no category for their type, or invalid)", skipped)))
			}
			if failed > 0 {
				fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("  %d failed; see log for details", failed)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&incomeCategory, "income-category", "", "category ID for imported credits")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "", "category ID for imported debits")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview without recording")

	return cmd
}
