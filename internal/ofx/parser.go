// Package ofx parses OFX/QFX bank exports into candidate transactions for
// bulk creation through the API.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/mymoneyhq/moneyctl/internal/model"
)

// Candidate is one statement line ready to become an income or expense
// record: credits map to incomes, debits to expenses, amounts are absolute.
// The category is chosen at import time, not by the statement.
type Candidate struct {
	Name   string
	Type   model.TransactionType
	Date   model.Date
	Amount float64
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in OFX files.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into import candidates.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]Candidate, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var candidates []Candidate
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			candidates = append(candidates, p.fromStatement(stmt.BankTranList)...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			candidates = append(candidates, p.fromStatement(stmt.BankTranList)...)
		}
	}

	slog.Debug("parsed OFX file",
		"candidates", len(candidates),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return candidates, nil
}

func (p *Parser) fromStatement(list *ofxgo.TransactionList) []Candidate {
	if list == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		candidates = append(candidates, p.convert(tx))
	}
	return candidates
}

// convert maps one OFX transaction to a candidate. OFX uses negative amounts
// for debits, so the sign picks the collection and the magnitude becomes the
// amount.
func (p *Parser) convert(tx ofxgo.Transaction) Candidate {
	amount, _ := tx.TrnAmt.Float64()

	typ := model.TypeIncome
	if amount < 0 {
		typ = model.TypeExpense
		amount = -amount
	}

	return Candidate{
		Name:   cleanName(tx),
		Amount: amount,
		Date:   model.DateOf(tx.DtPosted.Time),
		Type:   typ,
	}
}

// cleanName tries to get a readable label from OFX data.
func cleanName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date fragments some banks prepend
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
