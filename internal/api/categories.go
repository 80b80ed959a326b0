package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymoneyhq/moneyctl/internal/model"
)

// Categories lists all categories for the current user.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CategoriesByType lists categories filtered to income or expense.
func (c *Client) CategoriesByType(ctx context.Context, typ model.TransactionType) ([]model.Category, error) {
	var cats []model.Category
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%s", typ), nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory creates a category and returns the stored record.
func (c *Client) CreateCategory(ctx context.Context, cat model.Category) (*model.Category, error) {
	var created model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", cat, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory updates the category with the given ID.
func (c *Client) UpdateCategory(ctx context.Context, id string, cat model.Category) (*model.Category, error) {
	var updated model.Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/categories/%s", id), cat, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
