// Package models provides the wire-level data structures exchanged with the
// case service.
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Case is a top-level record grouping related transactions. List responses
// return summaries without transactions; only a detail fetch hydrates them.
type Case struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	Status       string        `json:"status,omitempty"`
	CreatedAt    Timestamp     `json:"created_at,omitempty"`
	UpdatedAt    Timestamp     `json:"updated_at,omitempty"`
	Transactions []Transaction `json:"transactions,omitempty"`
}

// CaseDraft carries the user-editable fields of a case for create and update
// submissions.
type CaseDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Transaction is a dated, amount-bearing entry belonging to exactly one case.
type Transaction struct {
	ID              int64           `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate Date            `json:"transaction_date"`
	CaseID          int64           `json:"case_id,omitempty"`
}

// TransactionDraft carries the user-editable fields of a transaction.
type TransactionDraft struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate Date            `json:"transaction_date"`
}

// AnalysisEntry flags one transaction of a case as anomalous. The set of
// entries is only meaningful against the exact transaction list it was
// computed from; it carries no version marker.
type AnalysisEntry struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// ParseAmount converts user input into a decimal amount. It accepts a comma
// as decimal separator and strips surrounding whitespace.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	return decimal.NewFromString(s)
}

// Clone returns a deep copy of the case, including its transactions, so that
// published snapshots cannot alias controller-owned state.
func (c Case) Clone() Case {
	out := c
	if c.Transactions != nil {
		out.Transactions = make([]Transaction, len(c.Transactions))
		copy(out.Transactions, c.Transactions)
	}
	return out
}
