package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincase/console-fin/internal/models"
)

func seedDetailCase(store *fakeStore, txAmounts ...string) *models.Case {
	cs := store.addCase("case seven", "under investigation")
	date := models.NewDate(2024, 1, 15)
	for _, amount := range txAmounts {
		store.addTransaction(cs.ID, amount, date)
	}
	return cs
}

func TestHydrateReplacesStateWholesale(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100", "200")

	dc := NewDetailController(store, acceptAll, testLogger())
	require.NoError(t, dc.Hydrate(context.Background(), cs.ID))

	got := dc.Case()
	require.NotNil(t, got)
	assert.Equal(t, cs.ID, got.ID)
	assert.Len(t, got.Transactions, 2)
}

func TestHydrateIsIdempotent(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100", "200", "300")

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	first := dc.Case()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	second := dc.Case()

	assert.Equal(t, first, second, "two hydrates with no intervening mutation yield identical snapshots")
}

func TestStaleHydrateResponseIsDiscarded(t *testing.T) {
	store := newFakeStore()
	stale := seedDetailCase(store, "100")
	fresh := store.addCase("newer case", "")

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()

	// While the first hydrate is in flight, a second one for another case
	// is issued and completes. The first response then arrives late.
	store.onGet = func(int64) {
		require.NoError(t, dc.Hydrate(ctx, fresh.ID))
	}
	require.NoError(t, dc.Hydrate(ctx, stale.ID))

	got := dc.Case()
	require.NotNil(t, got)
	assert.Equal(t, fresh.ID, got.ID, "the late stale response must not revert the view")
}

func TestResetInvalidatesInFlightHydrate(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100")

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()

	// The view is left while the fetch is still in flight. The late response
	// must not resurrect the state that was just torn down.
	store.onGet = func(int64) {
		dc.Reset()
	}
	require.NoError(t, dc.Hydrate(ctx, cs.ID))

	assert.Nil(t, dc.Case(), "a hydrate overtaken by a reset must be discarded")
	assert.False(t, dc.HasAnalysis())
	assert.Empty(t, dc.Err())
}

func TestHydrateFailureAfterResetIsDropped(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100")

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()

	store.failGet = errors.New("gateway timeout")
	store.onGet = func(int64) {
		dc.Reset()
	}
	require.NoError(t, dc.Hydrate(ctx, cs.ID), "a superseded failure is not surfaced")
	assert.Empty(t, dc.Err())
	assert.Nil(t, dc.Case())
}

func TestAddTransactionRejectsNonPositiveAmountLocally(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store)

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	before := store.requestCount()

	err := dc.AddTransaction(ctx, models.TransactionDraft{
		Amount:          decimal.NewFromInt(-5),
		TransactionDate: models.NewDate(2024, 1, 1),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
	assert.Equal(t, before, store.requestCount(), "no request is sent for an invalid draft")
}

func TestAddTransactionRequiresDate(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store)

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))

	err := dc.AddTransaction(ctx, models.TransactionDraft{
		Amount: decimal.NewFromInt(10),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "transaction_date", verr.Field)
}

func TestAddTransactionRehydratesAndClearsOverlay(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100")
	store.analysis = []models.AnalysisEntry{{ID: 1, Reason: "amount exceeds threshold"}}

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))
	require.True(t, dc.HasAnalysis())

	err := dc.AddTransaction(ctx, models.TransactionDraft{
		Amount:          decimal.NewFromInt(50),
		TransactionDate: models.NewDate(2024, 2, 1),
	})
	require.NoError(t, err)

	assert.False(t, dc.HasAnalysis(), "any transaction mutation expires the overlay")
	assert.Len(t, dc.Case().Transactions, 2, "the list comes from a re-hydrate, not a local splice")
}

func TestDeleteTransactionDeclinedIssuesNoRequest(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "100")

	dc := NewDetailController(store, declineAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	before := store.requestCount()

	assert.False(t, dc.DeleteTransaction(ctx, cs.Transactions[0].ID))
	assert.Equal(t, before, store.requestCount())
	assert.Len(t, dc.Case().Transactions, 1)
}

func TestAnalyzeFlagsOnlyReturnedIDs(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "10", "5000", "12")
	flaggedID := cs.Transactions[1].ID
	store.analysis = []models.AnalysisEntry{{ID: flaggedID, Reason: "amount exceeds threshold"}}

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))

	flags := dc.Flags()
	require.Len(t, flags, 1)
	assert.Equal(t, "amount exceeds threshold", flags[flaggedID])
	for _, tx := range dc.Case().Transactions {
		if tx.ID != flaggedID {
			assert.NotContains(t, flags, tx.ID)
		}
	}
}

func TestDeleteFlaggedTransactionClearsOverlay(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "10", "5000", "12")
	flaggedID := cs.Transactions[1].ID
	store.analysis = []models.AnalysisEntry{{ID: flaggedID, Reason: "amount exceeds threshold"}}

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))
	require.Len(t, dc.Flags(), 1)

	require.True(t, dc.DeleteTransaction(ctx, flaggedID))

	assert.Len(t, dc.Case().Transactions, 2)
	assert.False(t, dc.HasAnalysis())
	assert.Empty(t, dc.Flags(), "no transaction renders flagged after the overlay expires")
}

func TestOverlayJoinIgnoresUnknownIDs(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "10")
	store.analysis = []models.AnalysisEntry{{ID: 9999, Reason: "gone"}}

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))

	assert.True(t, dc.HasAnalysis())
	assert.Empty(t, dc.Flags(), "an overlay id missing from the list silently flags nothing")
}

func TestAnalyzeEmptyResultIsDistinctFromFailure(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "10", "11")
	store.analysis = nil

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))

	assert.True(t, dc.HasAnalysis(), "an empty result is a valid, reportable outcome")
	assert.Zero(t, dc.AnomalyCount())
	assert.Empty(t, dc.AnalysisErr())

	store.failAnalyze = fmt.Errorf("analysis backend down")
	err := dc.Analyze(ctx)
	require.Error(t, err)
	assert.False(t, dc.HasAnalysis(), "a failure clears any stale overlay")
	assert.Contains(t, dc.AnalysisErr(), "analysis failed")
	assert.Empty(t, dc.Err(), "analysis errors stay on their own channel")
}

func TestResetDropsAllDetailState(t *testing.T) {
	store := newFakeStore()
	cs := seedDetailCase(store, "10")
	store.analysis = []models.AnalysisEntry{{ID: cs.Transactions[0].ID, Reason: "x"}}

	dc := NewDetailController(store, acceptAll, testLogger())
	ctx := context.Background()
	require.NoError(t, dc.Hydrate(ctx, cs.ID))
	require.NoError(t, dc.Analyze(ctx))

	dc.Reset()
	assert.Nil(t, dc.Case())
	assert.False(t, dc.HasAnalysis())
	assert.Empty(t, dc.Err())
	assert.Empty(t, dc.AnalysisErr())
}

func TestHydrateFailureSetsError(t *testing.T) {
	store := newFakeStore()
	store.failGet = errors.New("case not found")

	dc := NewDetailController(store, acceptAll, testLogger())
	err := dc.Hydrate(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, dc.Case())
	assert.NotEmpty(t, dc.Err())
}
