// Package ofx parses OFX/QFX bank statements into movement inputs.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/mosys-app/mosys/internal/model"
)

// Categories assigned from the OFX transaction type when the statement gives
// no better hint. Everything else lands in the kind's catch-all category.
var typeCategories = map[string]string{
	"INT": "Otros Ingresos",
	"FEE": "Servicios",
	"ATM": "Gastos Varios",
}

const (
	fallbackExpenseCategory = "Gastos Varios"
	fallbackIncomeCategory  = "Otros Ingresos"
	importPaymentMethod     = "Tarjeta"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns movement inputs ready for the
// store. Credits become income, debits become expenses.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.MovementInput, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var movements []model.MovementInput
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			movements = append(movements, p.convertStatement(stmt.BankTranList)...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			movements = append(movements, p.convertStatement(stmt.BankTranList)...)
		}
	}

	slog.Info("parsed OFX file",
		"movements", len(movements),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return movements, nil
}

func (p *Parser) convertStatement(list *ofxgo.TransactionList) []model.MovementInput {
	if list == nil {
		return nil
	}

	var movements []model.MovementInput
	for _, tx := range list.Transactions {
		movements = append(movements, p.convertTransaction(tx))
	}
	return movements
}

// convertTransaction maps one OFX transaction onto a movement input. OFX
// amounts are signed: negative means money out.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) model.MovementInput {
	amount, _ := tx.TrnAmt.Float64()
	kind := model.KindIncome
	if amount < 0 {
		kind = model.KindExpense
		amount = -amount
	}

	in := model.MovementInput{
		Kind:          kind,
		Amount:        amount,
		Concept:       p.extractMerchantName(tx),
		Description:   strings.TrimSpace(string(tx.Memo)),
		PaymentMethod: importPaymentMethod,
		Date:          tx.DtPosted.Time,
	}

	trnType := fmt.Sprintf("%v", tx.TrnType)
	if cat, ok := typeCategories[trnType]; ok {
		in.Category = cat
	} else if kind == model.KindIncome {
		in.Category = fallbackIncomeCategory
	} else {
		in.Category = fallbackExpenseCategory
	}
	return in
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Sometimes MEMO has better merchant info
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

	// Clean up date patterns like "MM/DD" at the beginning
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
