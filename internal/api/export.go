package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mymoneyhq/moneyctl/internal/model"
)

func exportSegment(typ model.TransactionType) string {
	if typ == model.TypeIncome {
		return "incomes"
	}
	return "expenses"
}

// DownloadExcel fetches the binary spreadsheet export for the given
// collection.
func (c *Client) DownloadExcel(ctx context.Context, typ model.TransactionType) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, fmt.Sprintf("/excel/download/%s", exportSegment(typ)), nil)
}

// EmailExcel asks the server to email the spreadsheet export to the account
// holder.
func (c *Client) EmailExcel(ctx context.Context, typ model.TransactionType) error {
	path := "/email/expense-excel"
	if typ == model.TypeIncome {
		path = "/email/income-excel"
	}
	return c.do(ctx, http.MethodGet, path, nil, nil)
}
