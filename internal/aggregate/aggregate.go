// Package aggregate turns raw transaction collections into the ordered,
// summed series the overview screen plots. All functions are pure and assume
// input already validated at entry creation; amounts are never re-checked
// here.
package aggregate

import (
	"sort"

	"github.com/mymoneyhq/moneyctl/internal/model"
)

// Series is a per-date sum of transaction amounts, materialized as two
// parallel slices: Dates ascending chronologically, Sums aligned by index.
type Series struct {
	Dates []model.Date
	Sums  []float64
}

// ByDate groups transactions by calendar date and sums their amounts.
// Transactions sharing a date collapse into one entry. Empty input yields an
// empty (non-nil) series.
func ByDate(txs []model.Transaction) Series {
	totals := make(map[model.Date]float64, len(txs))
	for _, tx := range txs {
		totals[tx.Date] += tx.Amount
	}

	dates := make([]model.Date, 0, len(totals))
	for d := range totals {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	sums := make([]float64, len(dates))
	for i, d := range dates {
		sums[i] = totals[d]
	}

	return Series{Dates: dates, Sums: sums}
}

// Summary holds the type-level totals for the financial overview.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	TotalBalance float64
}

// Summarize totals the income and expense collections. Empty collections
// contribute zero; TotalBalance is income minus expense.
func Summarize(incomes, expenses []model.Transaction) Summary {
	var s Summary
	for _, tx := range incomes {
		s.TotalIncome += tx.Amount
	}
	for _, tx := range expenses {
		s.TotalExpense += tx.Amount
	}
	s.TotalBalance = s.TotalIncome - s.TotalExpense
	return s
}
