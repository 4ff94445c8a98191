package model

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType marks a transaction as money leaving or entering an account.
type TransactionType string

const (
	// Debit is money leaving an account; its amount is stored negative.
	Debit TransactionType = "debit"
	// Credit is money entering an account; its amount is stored as parsed.
	Credit TransactionType = "credit"
)

// ParseTransactionType accepts "debit" or "credit" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is one row of the enriched table.
type Transaction struct {
	Date            time.Time
	Description     string
	Category        string
	OverallCategory string // Meaningful only when Mapped is true
	AccountName     string
	Type            TransactionType
	Amount          float64 // Debits negative, credits positive
	Year            int
	Month           int
	Day             int
	Mapped          bool
}

// InCategory reports whether the transaction's overall category is defined and equal to label.
func (t Transaction) InCategory(label string) bool {
	return t.Mapped && t.OverallCategory == label
}
