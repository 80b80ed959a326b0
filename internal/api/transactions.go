package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymoneyhq/moneyctl/internal/common"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

// collectionPath maps a transaction type to its API collection.
func collectionPath(typ model.TransactionType) string {
	if typ == model.TypeIncome {
		return "/incomes"
	}
	return "/expenses"
}

// Transactions lists the income or expense collection, tagging each record
// with its type.
func (c *Client) Transactions(ctx context.Context, typ model.TransactionType) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.do(ctx, http.MethodGet, collectionPath(typ), nil, &txs); err != nil {
		return nil, err
	}
	for i := range txs {
		txs[i].Type = typ
	}
	return txs, nil
}

// CreateTransaction validates the record client-side and creates it. A
// validation failure is reported before any network call is made.
func (c *Client) CreateTransaction(ctx context.Context, tx model.NewTransaction) (*model.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var created model.Transaction
	if err := c.do(ctx, http.MethodPost, collectionPath(tx.Type), tx, &created); err != nil {
		return nil, err
	}
	created.Type = tx.Type
	return &created, nil
}

// DeleteTransaction removes the transaction with the given ID.
func (c *Client) DeleteTransaction(ctx context.Context, typ model.TransactionType, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", collectionPath(typ), id), nil, nil)
}
