package controller

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/models"
)

// fakeStore is an in-memory CaseStore that records how often each operation
// was called and supports per-operation error injection.
type fakeStore struct {
	cases      map[int64]*models.Case
	nextCaseID int64
	nextTxID   int64

	calls map[string]int

	failList     error
	failGet      error
	failCreate   error
	failUpdate   error
	failDelete   error
	failCreateTx error
	failDeleteTx error
	failAnalyze  error

	analysis []models.AnalysisEntry

	// onGet, when set, runs before GetCase returns. Used to interleave a
	// second hydrate inside an in-flight one.
	onGet func(id int64)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cases: make(map[int64]*models.Case),
		calls: make(map[string]int),
	}
}

func (f *fakeStore) addCase(title, description string) *models.Case {
	f.nextCaseID++
	cs := &models.Case{
		ID:          f.nextCaseID,
		Title:       title,
		Description: description,
		Status:      "open",
	}
	f.cases[cs.ID] = cs
	return cs
}

func (f *fakeStore) addTransaction(caseID int64, amount string, date models.Date) models.Transaction {
	f.nextTxID++
	tx := models.Transaction{
		ID:              f.nextTxID,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		CaseID:          caseID,
	}
	cs := f.cases[caseID]
	cs.Transactions = append(cs.Transactions, tx)
	return tx
}

func (f *fakeStore) ListCases(ctx context.Context) ([]models.Case, error) {
	f.calls["ListCases"]++
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]models.Case, 0, len(f.cases))
	for _, cs := range f.cases {
		summary := cs.Clone()
		summary.Transactions = nil // list endpoint returns summaries only
		out = append(out, summary)
	}
	return out, nil
}

func (f *fakeStore) GetCase(ctx context.Context, id int64) (models.Case, error) {
	f.calls["GetCase"]++
	if f.onGet != nil {
		hook := f.onGet
		f.onGet = nil
		hook(id)
	}
	if f.failGet != nil {
		return models.Case{}, f.failGet
	}
	cs, ok := f.cases[id]
	if !ok {
		return models.Case{}, fmt.Errorf("case not found")
	}
	return cs.Clone(), nil
}

func (f *fakeStore) CreateCase(ctx context.Context, draft models.CaseDraft) (models.Case, error) {
	f.calls["CreateCase"]++
	if f.failCreate != nil {
		return models.Case{}, f.failCreate
	}
	cs := f.addCase(draft.Title, draft.Description)
	return cs.Clone(), nil
}

func (f *fakeStore) UpdateCase(ctx context.Context, id int64, draft models.CaseDraft) (models.Case, error) {
	f.calls["UpdateCase"]++
	if f.failUpdate != nil {
		return models.Case{}, f.failUpdate
	}
	cs, ok := f.cases[id]
	if !ok {
		return models.Case{}, fmt.Errorf("case not found")
	}
	cs.Title = draft.Title
	cs.Description = draft.Description
	return cs.Clone(), nil
}

func (f *fakeStore) DeleteCase(ctx context.Context, id int64) error {
	f.calls["DeleteCase"]++
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.cases[id]; !ok {
		return fmt.Errorf("case not found")
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeStore) CreateTransaction(ctx context.Context, caseID int64, draft models.TransactionDraft) (models.Transaction, error) {
	f.calls["CreateTransaction"]++
	if f.failCreateTx != nil {
		return models.Transaction{}, f.failCreateTx
	}
	if _, ok := f.cases[caseID]; !ok {
		return models.Transaction{}, fmt.Errorf("case not found")
	}
	f.nextTxID++
	tx := models.Transaction{
		ID:              f.nextTxID,
		Amount:          draft.Amount,
		Description:     draft.Description,
		TransactionDate: draft.TransactionDate,
		CaseID:          caseID,
	}
	cs := f.cases[caseID]
	cs.Transactions = append(cs.Transactions, tx)
	return tx, nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, id int64) error {
	f.calls["DeleteTransaction"]++
	if f.failDeleteTx != nil {
		return f.failDeleteTx
	}
	for _, cs := range f.cases {
		for i, tx := range cs.Transactions {
			if tx.ID == id {
				cs.Transactions = append(cs.Transactions[:i], cs.Transactions[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("transaction not found")
}

func (f *fakeStore) Analyze(ctx context.Context, caseID int64) ([]models.AnalysisEntry, error) {
	f.calls["Analyze"]++
	if f.failAnalyze != nil {
		return nil, f.failAnalyze
	}
	if _, ok := f.cases[caseID]; !ok {
		return nil, fmt.Errorf("case not found")
	}
	return f.analysis, nil
}

func (f *fakeStore) requestCount() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func draftOf(title, description string) models.CaseDraft {
	return models.CaseDraft{Title: title, Description: description}
}

// testLogger returns a logger that stays quiet during tests.
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// acceptAll is a confirmation gate that always accepts.
func acceptAll(string) bool { return true }

// declineAll is a confirmation gate that always declines.
func declineAll(string) bool { return false }
