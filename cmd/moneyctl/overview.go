package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mymoneyhq/moneyctl/internal/tui"
)

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Interactive financial overview",
		Long: `Open the overview screen: income/expense/balance totals, the summed
amount-by-date series, and your most recent transactions.

When the server is unreachable the last fetched data is shown instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, _, err := requireSession(ctx)
			if err != nil {
				return err
			}

			cache := openCache()
			if cache != nil {
				defer cache.Close()
			}

			var cacheStore tui.CacheStore
			if cache != nil {
				cacheStore = cache
			}

			program := tea.NewProgram(tui.NewModel(client, cacheStore))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("overview failed: %w", err)
			}
			return nil
		},
	}
}
