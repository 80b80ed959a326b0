package model

import (
	"fmt"
	"strings"
)

// Category is a named grouping for transactions of one type.
type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Icon string          `json:"icon,omitempty"`
	Type TransactionType `json:"type"`
}

// Validate checks the client-side rules for creating or renaming a category.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if c.Type != TypeIncome && c.Type != TypeExpense {
		return fmt.Errorf("category type must be income or expense, got %q", c.Type)
	}
	return nil
}

// FindDuplicate returns the existing category of the same type whose name
// matches case-insensitively, or nil. Names are unique per type; the server
// enforces this too, but checking here avoids a round trip for the common
// case.
func FindDuplicate(existing []Category, name string, typ TransactionType) *Category {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range existing {
		if existing[i].Type != typ {
			continue
		}
		if strings.ToLower(existing[i].Name) == want {
			return &existing[i]
		}
	}
	return nil
}
