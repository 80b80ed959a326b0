package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func testTx(t *testing.T, typ model.TransactionType, id, date string, amount float64) model.Transaction {
	t.Helper()
	d, err := model.ParseDate(date)
	require.NoError(t, err)
	return model.Transaction{
		ID:         id,
		Name:       "tx " + id,
		Amount:     amount,
		Date:       d,
		CategoryID: "cat-1",
		Type:       typ,
		CreatedAt:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	incomes := []model.Transaction{
		testTx(t, model.TypeIncome, "i1", "2024-01-05", 1000),
		testTx(t, model.TypeIncome, "i2", "2024-01-03", 250.50),
	}
	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeIncome, incomes))

	got, err := cache.Transactions(ctx, model.TypeIncome)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by date.
	assert.Equal(t, "i2", got[0].ID)
	assert.Equal(t, "i1", got[1].ID)
	assert.Equal(t, model.TypeIncome, got[0].Type)
	assert.InDelta(t, 250.50, got[0].Amount, 1e-9)
	assert.Equal(t, "2024-01-03", got[0].Date.String())
}

func TestCacheTypesAreIndependent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeIncome,
		[]model.Transaction{testTx(t, model.TypeIncome, "i1", "2024-01-05", 100)}))
	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeExpense,
		[]model.Transaction{testTx(t, model.TypeExpense, "e1", "2024-01-06", 40)}))

	// Replacing incomes must not disturb expenses.
	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeIncome, nil))

	incomes, err := cache.Transactions(ctx, model.TypeIncome)
	require.NoError(t, err)
	assert.Empty(t, incomes)

	expenses, err := cache.Transactions(ctx, model.TypeExpense)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "e1", expenses[0].ID)
}

func TestCacheReplaceIsAtomicSwap(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeExpense,
		[]model.Transaction{
			testTx(t, model.TypeExpense, "e1", "2024-01-06", 40),
			testTx(t, model.TypeExpense, "e2", "2024-01-07", 60),
		}))

	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeExpense,
		[]model.Transaction{testTx(t, model.TypeExpense, "e3", "2024-01-08", 10)}))

	got, err := cache.Transactions(ctx, model.TypeExpense)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e3", got[0].ID)
}

func TestCacheCategories(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cats := []model.Category{
		{ID: "c2", Name: "Salary", Type: model.TypeIncome},
		{ID: "c1", Name: "Food", Type: model.TypeExpense, Icon: "🍜"},
	}
	require.NoError(t, cache.ReplaceCategories(ctx, cats))

	got, err := cache.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Name)
	assert.Equal(t, "🍜", got[0].Icon)
	assert.Equal(t, model.TypeIncome, got[1].Type)
}

func TestCacheLastUpdated(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	when, err := cache.LastUpdated(ctx, model.TypeIncome)
	require.NoError(t, err)
	assert.True(t, when.IsZero(), "empty cache has no freshness")

	require.NoError(t, cache.ReplaceTransactions(ctx, model.TypeIncome,
		[]model.Transaction{testTx(t, model.TypeIncome, "i1", "2024-01-05", 100)}))

	when, err = cache.LastUpdated(ctx, model.TypeIncome)
	require.NoError(t, err)
	assert.False(t, when.IsZero())
}
