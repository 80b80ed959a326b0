package aggregate

import (
	"testing"

	"github.com/mymoneyhq/moneyctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func tx(t *testing.T, date string, amount float64) model.Transaction {
	t.Helper()
	return model.Transaction{Date: mustDate(t, date), Amount: amount}
}

func TestByDate_Empty(t *testing.T) {
	series := ByDate(nil)
	assert.Empty(t, series.Dates)
	assert.Empty(t, series.Sums)
	assert.NotNil(t, series.Dates)
	assert.NotNil(t, series.Sums)
}

func TestByDate_MergesSameDate(t *testing.T) {
	series := ByDate([]model.Transaction{
		tx(t, "2024-01-05", 100),
		tx(t, "2024-01-05", 50),
		tx(t, "2024-01-03", 20),
	})

	require.Len(t, series.Dates, 2)
	assert.Equal(t, "2024-01-03", series.Dates[0].String())
	assert.Equal(t, "2024-01-05", series.Dates[1].String())
	assert.Equal(t, []float64{20, 150}, series.Sums)
}

func TestByDate_ChronologicalNotStringOrder(t *testing.T) {
	// Different years and months, inserted out of order.
	series := ByDate([]model.Transaction{
		tx(t, "2024-02-01", 1),
		tx(t, "2023-12-31", 2),
		tx(t, "2024-01-15", 3),
	})

	require.Len(t, series.Dates, 3)
	assert.Equal(t, "2023-12-31", series.Dates[0].String())
	assert.Equal(t, "2024-01-15", series.Dates[1].String())
	assert.Equal(t, "2024-02-01", series.Dates[2].String())
}

func TestByDate_StrictlyAscendingNoDuplicates(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2024-03-10", 5),
		tx(t, "2024-03-08", 7),
		tx(t, "2024-03-10", 2),
		tx(t, "2024-03-09", 1),
		tx(t, "2024-03-08", 4),
	}

	series := ByDate(txs)

	for i := 1; i < len(series.Dates); i++ {
		assert.True(t, series.Dates[i-1].Before(series.Dates[i]),
			"dates must be strictly ascending: %s vs %s",
			series.Dates[i-1], series.Dates[i])
	}
}

func TestByDate_ConservesTotal(t *testing.T) {
	txs := []model.Transaction{
		tx(t, "2024-03-10", 5.25),
		tx(t, "2024-03-08", 7.50),
		tx(t, "2024-03-10", 2.25),
		tx(t, "2024-04-01", 100),
	}

	var want float64
	for _, transaction := range txs {
		want += transaction.Amount
	}

	series := ByDate(txs)
	var got float64
	for _, sum := range series.Sums {
		got += sum
	}

	assert.InDelta(t, want, got, 1e-9)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		incomes  []model.Transaction
		expenses []model.Transaction
		want     Summary
	}{
		{
			name: "both empty",
			want: Summary{},
		},
		{
			name: "income only",
			incomes: []model.Transaction{
				tx(t, "2024-01-01", 1000),
				tx(t, "2024-01-02", 250.50),
			},
			want: Summary{TotalIncome: 1250.50, TotalBalance: 1250.50},
		},
		{
			name: "income and expense",
			incomes: []model.Transaction{
				tx(t, "2024-01-01", 3000),
			},
			expenses: []model.Transaction{
				tx(t, "2024-01-05", 1200),
				tx(t, "2024-01-06", 300),
			},
			want: Summary{TotalIncome: 3000, TotalExpense: 1500, TotalBalance: 1500},
		},
		{
			name: "expenses exceed income",
			expenses: []model.Transaction{
				tx(t, "2024-01-05", 80),
			},
			want: Summary{TotalExpense: 80, TotalBalance: -80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.incomes, tt.expenses)
			assert.InDelta(t, tt.want.TotalIncome, got.TotalIncome, 1e-9)
			assert.InDelta(t, tt.want.TotalExpense, got.TotalExpense, 1e-9)
			assert.InDelta(t, tt.want.TotalBalance, got.TotalBalance, 1e-9)
			assert.InDelta(t, got.TotalIncome-got.TotalExpense, got.TotalBalance, 1e-9)
		})
	}
}
