// Package tui renders the financial overview screen: type totals, the
// per-date amount series, and the most recent transactions. It has no
// knowledge of how the series is computed; it just draws what the
// aggregation engine hands it.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mymoneyhq/moneyctl/internal/aggregate"
	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/format"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

// Fetcher lists a transaction collection from the remote API.
type Fetcher interface {
	Transactions(ctx context.Context, typ model.TransactionType) ([]model.Transaction, error)
}

// CacheStore reads and refreshes the last-known-good local copy.
type CacheStore interface {
	ReplaceTransactions(ctx context.Context, typ model.TransactionType, txs []model.Transaction) error
	Transactions(ctx context.Context, typ model.TransactionType) ([]model.Transaction, error)
}

const recentLimit = 8

// Model is the bubbletea model for the overview screen.
type Model struct {
	fetcher  Fetcher
	cache    CacheStore
	err      error
	incomes  []model.Transaction
	expenses []model.Transaction
	spinner  spinner.Model
	width    int
	loading  bool
	cached   bool
}

// NewModel creates an overview model over the given fetcher and cache.
func NewModel(fetcher Fetcher, cache CacheStore) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cli.PrimaryColor)

	return Model{
		fetcher: fetcher,
		cache:   cache,
		spinner: s,
		loading: true,
		width:   80,
	}
}

type loadedMsg struct {
	err      error
	incomes  []model.Transaction
	expenses []model.Transaction
	cached   bool
}

// Init starts the spinner and the initial load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

// loadCmd fetches both collections, refreshing the cache on success and
// falling back to it on failure so the last-known-good data stays visible.
func (m Model) loadCmd() tea.Cmd {
	fetcher, cache := m.fetcher, m.cache
	return func() tea.Msg {
		ctx := context.Background()

		incomes, incErr := fetcher.Transactions(ctx, model.TypeIncome)
		expenses, expErr := fetcher.Transactions(ctx, model.TypeExpense)

		if incErr == nil && expErr == nil {
			if cache != nil {
				if err := cache.ReplaceTransactions(ctx, model.TypeIncome, incomes); err != nil {
					slog.Warn("failed to refresh income cache", "error", err)
				}
				if err := cache.ReplaceTransactions(ctx, model.TypeExpense, expenses); err != nil {
					slog.Warn("failed to refresh expense cache", "error", err)
				}
			}
			return loadedMsg{incomes: incomes, expenses: expenses}
		}

		fetchErr := incErr
		if fetchErr == nil {
			fetchErr = expErr
		}

		if cache != nil {
			cachedIncomes, err1 := cache.Transactions(ctx, model.TypeIncome)
			cachedExpenses, err2 := cache.Transactions(ctx, model.TypeExpense)
			if err1 == nil && err2 == nil && (len(cachedIncomes) > 0 || len(cachedExpenses) > 0) {
				return loadedMsg{incomes: cachedIncomes, expenses: cachedExpenses, cached: true, err: fetchErr}
			}
		}

		return loadedMsg{err: fetchErr}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			// Latch: one refresh in flight at a time.
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadedMsg:
		m.loading = false
		m.incomes = msg.incomes
		m.expenses = msg.expenses
		m.cached = msg.cached
		if msg.cached {
			m.err = nil
		} else {
			m.err = msg.err
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the overview.
func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  %s Loading overview...\n", m.spinner.View())
	}
	if m.err != nil {
		return fmt.Sprintf("\n  %s\n\n  %s\n",
			cli.ErrorStyle.Render("Failed to load overview: "+m.err.Error()),
			cli.SubtleStyle.Render("r retry • q quit"))
	}

	sections := []string{
		cli.TitleStyle.Render("Financial Overview"),
		m.renderTotals(),
		m.renderChart(),
		m.renderRecent(),
		cli.SubtleStyle.Render("r refresh • q quit"),
	}

	if m.cached {
		notice := cli.SubtleStyle.Render("offline: showing last fetched data")
		sections = append([]string{sections[0], notice}, sections[1:]...)
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderTotals() string {
	summary := aggregate.Summarize(m.incomes, m.expenses)

	rows := []string{
		fmt.Sprintf("%-14s %s", "Total Income", cli.IncomeStyle.Render(format.Amount(summary.TotalIncome))),
		fmt.Sprintf("%-14s %s", "Total Expense", cli.ExpenseStyle.Render(format.Amount(summary.TotalExpense))),
		fmt.Sprintf("%-14s %s", "Total Balance", format.Amount(summary.TotalBalance)),
	}

	return cli.BoxStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderChart() string {
	all := make([]model.Transaction, 0, len(m.incomes)+len(m.expenses))
	all = append(all, m.incomes...)
	all = append(all, m.expenses...)

	series := aggregate.ByDate(all)
	if len(series.Dates) == 0 {
		return cli.SubtleStyle.Render("No transactions yet.")
	}

	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString("Amount by date\n")
	for i, date := range series.Dates {
		b.WriteString(fmt.Sprintf("%s  %s %s\n",
			date,
			renderBar(series.Sums[i], maxSum(series.Sums), barWidth),
			cli.SubtleStyle.Render(format.Amount(series.Sums[i]))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func maxSum(sums []float64) float64 {
	var maxVal float64
	for _, s := range sums {
		if s > maxVal {
			maxVal = s
		}
	}
	return maxVal
}

// renderBar scales value against maxVal into a bar of at most width cells.
// Non-empty values always get at least one cell so small days stay visible.
func renderBar(value, maxVal float64, width int) string {
	if maxVal <= 0 || value <= 0 {
		return ""
	}
	cells := int(value / maxVal * float64(width))
	if cells < 1 {
		cells = 1
	}
	return lipgloss.NewStyle().Foreground(cli.PrimaryColor).Render(strings.Repeat("█", cells))
}

func (m Model) renderRecent() string {
	merged := make([]model.Transaction, 0, len(m.incomes)+len(m.expenses))
	merged = append(merged, m.incomes...)
	merged = append(merged, m.expenses...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[j].Date.Before(merged[i].Date)
	})
	if len(merged) > recentLimit {
		merged = merged[:recentLimit]
	}
	if len(merged) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Recent transactions\n")
	for _, tx := range merged {
		amount := format.SignedAmount(tx.Amount, tx.Type)
		if tx.Type == model.TypeIncome {
			amount = cli.IncomeStyle.Render(amount)
		} else {
			amount = cli.ExpenseStyle.Render(amount)
		}
		b.WriteString(fmt.Sprintf("  %-24s %s  %s\n",
			truncate(tx.Name, 24),
			cli.SubtleStyle.Render(format.TimestampLabel(tx.Date, tx.UpdatedAt)),
			amount))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
