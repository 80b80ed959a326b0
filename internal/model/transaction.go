package model

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType distinguishes incomes from expenses. The remote API keeps
// the two in separate collections, so the type is implied by which endpoint a
// record came from and is filled in client-side.
type TransactionType string

const (
	// TypeIncome marks a transaction fetched from or destined for /incomes.
	TypeIncome TransactionType = "income"
	// TypeExpense marks a transaction fetched from or destined for /expenses.
	TypeExpense TransactionType = "expense"
)

// Transaction is a single income or expense record.
type Transaction struct {
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon,omitempty"`
	CategoryID string          `json:"categoryId"`
	Type       TransactionType `json:"-"`
	Date       Date            `json:"date"`
	Amount     float64         `json:"amount"`
}

// NewTransaction carries the user-supplied fields of a transaction to be
// created. Server-assigned fields (ID, timestamps) are absent.
type NewTransaction struct {
	Name       string          `json:"name"`
	Icon       string          `json:"icon,omitempty"`
	CategoryID string          `json:"categoryId"`
	Type       TransactionType `json:"-"`
	Date       Date            `json:"date"`
	Amount     float64         `json:"amount"`
}

// Validate checks the client-side creation rules before any network call:
// non-empty name, positive amount, chosen category, and an effective date
// that exists and is not in the future.
func (t NewTransaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0, got %.2f", t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if t.Date.After(Today()) {
		return fmt.Errorf("date %s cannot be in the future", t.Date)
	}
	if t.CategoryID == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}
