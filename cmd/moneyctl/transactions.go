package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mymoneyhq/moneyctl/internal/api"
	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/format"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

// transactionsCmd builds either the incomes or the expenses command family;
// the two collections behave identically apart from their endpoint and sign.
func transactionsCmd(use string) *cobra.Command {
	typ, err := parseType(use)
	if err != nil {
		panic(err) // static command names only
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Manage %s", use),
	}

	cmd.AddCommand(listTransactionsCmd(typ))
	cmd.AddCommand(addTransactionCmd(typ))
	cmd.AddCommand(deleteTransactionCmd(typ))

	return cmd
}

func listTransactionsCmd(typ model.TransactionType) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %ss", typ),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			txs, cached, err := fetchWithFallback(ctx, client, typ)
			if err != nil {
				return err
			}
			if cached {
				fmt.Println(cli.SubtleStyle.Render("offline: showing last fetched data"))
			}

			if len(txs) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No %ss recorded yet.", typ)))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("When"),
				headerStyle.Render("Amount"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8),
				strings.Repeat("-", 24),
				strings.Repeat("-", 26),
				strings.Repeat("-", 12))

			for _, tx := range txs {
				amount := format.SignedAmount(tx.Amount, tx.Type)
				if tx.Type == model.TypeIncome {
					amount = cli.IncomeStyle.Render(amount)
				} else {
					amount = cli.ExpenseStyle.Render(amount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					tx.ID, tx.Name, format.TimestampLabel(tx.Date, tx.UpdatedAt), amount)
			}

			return nil
		},
	}
}

// fetchWithFallback lists the collection, refreshing the local cache on
// success and falling back to it when the fetch fails, so the last-known-good
// data is shown rather than nothing.
func fetchWithFallback(ctx context.Context, client *api.Client, typ model.TransactionType) ([]model.Transaction, bool, error) {
	txs, fetchErr := client.Transactions(ctx, typ)
	cache := openCache()
	if cache != nil {
		defer cache.Close()
	}

	if fetchErr == nil {
		if cache != nil {
			if err := cache.ReplaceTransactions(ctx, typ, txs); err != nil {
				fmt.Fprintln(os.Stderr, cli.SubtleStyle.Render("warning: failed to refresh local cache"))
			}
		}
		return txs, false, nil
	}

	if cache != nil {
		cached, err := cache.Transactions(ctx, typ)
		if err == nil && len(cached) > 0 {
			return cached, true, nil
		}
	}

	return nil, false, fmt.Errorf("failed to fetch %ss: %w", typ, fetchErr)
}

func addTransactionCmd(typ model.TransactionType) *cobra.Command {
	var (
		name       string
		amount     float64
		dateStr    string
		categoryID string
		icon       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Record a new %s", typ),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date, err := model.ParseDate(dateStr)
			if err != nil {
				return err
			}

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			created, err := client.CreateTransaction(ctx, model.NewTransaction{
				Name:       name,
				Amount:     amount,
				Date:       date,
				CategoryID: categoryID,
				Icon:       icon,
				Type:       typ,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Recorded %s %q: %s on %s",
				typ, created.Name, format.SignedAmount(created.Amount, typ), created.Date)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display label")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount (must be greater than 0)")
	cmd.Flags().StringVar(&dateStr, "date", "", "effective date, YYYY-MM-DD (not in the future)")
	cmd.Flags().StringVar(&categoryID, "category", "", "category ID")
	cmd.Flags().StringVar(&icon, "icon", "", "icon or emoji")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteTransactionCmd(typ model.TransactionType) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a recorded %s", typ),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			if err := client.DeleteTransaction(ctx, typ, args[0]); err != nil {
				return fmt.Errorf("failed to delete %s: %w", typ, err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted %s %s", typ, args[0])))
			return nil
		},
	}
}
