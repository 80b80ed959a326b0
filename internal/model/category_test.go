package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{
			name:     "valid income category",
			category: Category{Name: "Salary", Type: TypeIncome},
		},
		{
			name:     "valid expense category",
			category: Category{Name: "Food", Icon: "🍜", Type: TypeExpense},
		},
		{
			name:     "empty name",
			category: Category{Type: TypeExpense},
			wantErr:  true,
		},
		{
			name:     "whitespace name",
			category: Category{Name: "  ", Type: TypeIncome},
			wantErr:  true,
		},
		{
			name:     "missing type",
			category: Category{Name: "Food"},
			wantErr:  true,
		},
		{
			name:     "bogus type",
			category: Category{Name: "Food", Type: "transfer"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindDuplicate(t *testing.T) {
	existing := []Category{
		{ID: "c1", Name: "Food", Type: TypeExpense},
		{ID: "c2", Name: "Salary", Type: TypeIncome},
		{ID: "c3", Name: "Travel", Type: TypeExpense},
	}

	t.Run("matches case-insensitively", func(t *testing.T) {
		got := FindDuplicate(existing, "FOOD", TypeExpense)
		require.NotNil(t, got)
		assert.Equal(t, "c1", got.ID)
	})

	t.Run("ignores surrounding whitespace", func(t *testing.T) {
		got := FindDuplicate(existing, "  travel ", TypeExpense)
		require.NotNil(t, got)
		assert.Equal(t, "c3", got.ID)
	})

	t.Run("same name under the other type is not a duplicate", func(t *testing.T) {
		assert.Nil(t, FindDuplicate(existing, "Food", TypeIncome))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, FindDuplicate(existing, "Rent", TypeExpense))
	})

	t.Run("empty slice", func(t *testing.T) {
		assert.Nil(t, FindDuplicate(nil, "Food", TypeExpense))
	})
}
