// Package ofx reads OFX/QFX bank and credit card statements into a raw transaction table.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/Veraticus/mintflow/internal/model"
	"github.com/aclindsa/ofxgo"
)

// UncategorizedCategory is used for transactions whose OFX type carries no category hint.
const UncategorizedCategory = "Uncategorized"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line with no closing bracket, seen in SGML-style exports.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocess fixes common formatting issues in OFX files.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile opens path and parses it.
func (p *Parser) ParseFile(ctx context.Context, path string) (model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to open OFX file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return p.Parse(ctx, f)
}

// Parse reads every bank and credit card statement in the OFX document.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (model.RawTable, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return model.RawTable{}, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	table := model.RawTable{Columns: slices.Clone(model.RawColumns)}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			account := string(stmt.BankAcctFrom.AcctID)
			for _, tx := range stmt.BankTranList.Transactions {
				table.Rows = append(table.Rows, p.convertTransaction(tx, account))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			account := string(stmt.CCAcctFrom.AcctID)
			for _, tx := range stmt.BankTranList.Transactions {
				table.Rows = append(table.Rows, p.convertTransaction(tx, account))
			}
		}
	}

	p.logger.Info("Parsed OFX file",
		"total_transactions", len(table.Rows),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return table, nil
}

// convertTransaction maps an OFX transaction onto the raw export columns.
// OFX amounts are signed; the row carries the magnitude and a debit/credit type.
func (p *Parser) convertTransaction(tx ofxgo.Transaction, account string) []string {
	amount := &tx.TrnAmt.Rat
	txType := model.Credit
	if amount.Sign() < 0 {
		txType = model.Debit
	}
	magnitude := strings.TrimPrefix(amount.FloatString(2), "-")

	return []string{
		tx.DtPosted.Format("2006-01-02"),
		p.description(tx),
		magnitude,
		string(txType),
		categoryHint(tx.TrnType.String()),
		account,
	}
}

// description prefers the payee name, then NAME, then MEMO when NAME is generic.
func (p *Parser) description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

// categoryHint infers a raw category from the OFX transaction type.
func categoryHint(trnType string) string {
	switch trnType {
	case "INT", "DIV":
		return "Interest Income"
	case "FEE", "SRVCHG":
		return "Bank Fee"
	case "ATM", "CASH":
		return "Cash & ATM"
	default:
		return UncategorizedCategory
	}
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
