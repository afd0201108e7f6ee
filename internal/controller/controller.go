// Package controller implements the view-state synchronization layer: which
// view is shown, how local form state relates to server-confirmed records,
// when cached data is refetched, and how the transient analysis overlay is
// kept consistent with the transaction list it annotates. Controllers own
// their slice of state exclusively, publish immutable snapshots outward, and
// reach the server only through the CaseStore contract.
package controller

import (
	"context"

	"github.com/fincase/console-fin/internal/models"
)

// CaseStore is the remote record-keeping contract the controllers depend on.
// *api.Client satisfies it; tests substitute an in-memory fake.
type CaseStore interface {
	ListCases(ctx context.Context) ([]models.Case, error)
	GetCase(ctx context.Context, id int64) (models.Case, error)
	CreateCase(ctx context.Context, draft models.CaseDraft) (models.Case, error)
	UpdateCase(ctx context.Context, id int64, draft models.CaseDraft) (models.Case, error)
	DeleteCase(ctx context.Context, id int64) error
	CreateTransaction(ctx context.Context, caseID int64, draft models.TransactionDraft) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	Analyze(ctx context.Context, caseID int64) ([]models.AnalysisEntry, error)
}

// ConfirmFunc is the injected confirmation gate for destructive operations.
// Until it returns true, no request is issued.
type ConfirmFunc func(message string) bool

// ValidationError is a client-side, pre-request failure. No request is sent;
// the draft that produced it is preserved.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
