package controller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/logging"
	"github.com/fincase/console-fin/internal/models"
)

// DetailController owns the single hydrated case currently being viewed and
// the transient analysis overlay. The overlay carries no version marker, so
// it expires on any mutation of the transaction list, on re-hydrate and on
// leaving detail mode. The transaction list itself is never spliced locally;
// after every mutation the case is re-fetched from the server.
type DetailController struct {
	store   CaseStore
	confirm ConfirmFunc
	logger  *logrus.Logger

	current     *models.Case
	overlay     []models.AnalysisEntry // nil means absent; empty means "no anomalies"
	err         string
	analysisErr string

	// hydrateToken orders overlapping hydrates: a response carrying a
	// token older than the latest issued one is discarded instead of
	// reverting the view to stale data.
	hydrateToken uint64
}

// NewDetailController creates a detail controller with no case loaded.
func NewDetailController(store CaseStore, confirm ConfirmFunc, logger *logrus.Logger) *DetailController {
	return &DetailController{
		store:   store,
		confirm: confirm,
		logger:  logger,
	}
}

// Hydrate fetches one case wholesale, replacing any held state. The previous
// analysis overlay is invalidated as part of the call. Stale responses from
// an older overlapping hydrate are dropped.
func (c *DetailController) Hydrate(ctx context.Context, id int64) error {
	c.hydrateToken++
	token := c.hydrateToken

	cs, err := c.store.GetCase(ctx, id)
	if token != c.hydrateToken {
		// Superseded by a newer hydrate or a Reset while in flight; neither
		// the data nor the error may touch the current state.
		c.logger.WithField(logging.FieldCaseID, id).Debug("stale hydrate response discarded")
		return nil
	}
	if err != nil {
		c.err = err.Error()
		c.logger.WithFields(logrus.Fields{
			logging.FieldCaseID: id,
			logging.FieldError:  err,
		}).Warn("case hydrate failed")
		return err
	}

	c.current = &cs
	c.overlay = nil
	c.err = ""
	c.analysisErr = ""
	return nil
}

// AddTransaction validates the draft locally and submits it. The amount must
// be a positive number and the date must be present; an invalid draft fails
// with a ValidationError before any request is sent. On success the case is
// re-hydrated and the overlay is invalidated.
func (c *DetailController) AddTransaction(ctx context.Context, draft models.TransactionDraft) error {
	if c.current == nil {
		return fmt.Errorf("no case loaded")
	}

	if draft.Amount.Sign() <= 0 {
		verr := &ValidationError{Field: "amount", Message: "amount must be a positive number"}
		c.err = verr.Message
		return verr
	}
	if draft.TransactionDate.IsZero() {
		verr := &ValidationError{Field: "transaction_date", Message: "transaction date is required"}
		c.err = verr.Message
		return verr
	}

	caseID := c.current.ID
	tx, err := c.store.CreateTransaction(ctx, caseID, draft)
	if err != nil {
		c.err = err.Error()
		c.logger.WithFields(logrus.Fields{
			logging.FieldCaseID: caseID,
			logging.FieldError:  err,
		}).Warn("transaction create failed")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		logging.FieldCaseID:        caseID,
		logging.FieldTransactionID: tx.ID,
	}).Info("transaction added")
	return c.Hydrate(ctx, caseID)
}

// DeleteTransaction removes one transaction after the confirmation gate is
// satisfied, then re-hydrates the case and invalidates the overlay.
func (c *DetailController) DeleteTransaction(ctx context.Context, id int64) bool {
	if c.current == nil {
		return false
	}
	if !c.confirm(fmt.Sprintf("Delete transaction #%d?", id)) {
		return false
	}

	if err := c.store.DeleteTransaction(ctx, id); err != nil {
		c.err = err.Error()
		c.logger.WithFields(logrus.Fields{
			logging.FieldTransactionID: id,
			logging.FieldError:         err,
		}).Warn("transaction delete failed")
		return false
	}

	c.logger.WithField(logging.FieldTransactionID, id).Info("transaction deleted")
	_ = c.Hydrate(ctx, c.current.ID)
	return true
}

// Analyze runs the anomaly analysis for the current case. An empty result is
// stored as an empty, non-nil overlay so "no anomalies found" is reportable
// and distinct from a failure. A failure clears any stale overlay and sets
// an analysis-scoped error, separate from generic detail errors.
func (c *DetailController) Analyze(ctx context.Context) error {
	if c.current == nil {
		return fmt.Errorf("no case loaded")
	}

	entries, err := c.store.Analyze(ctx, c.current.ID)
	if err != nil {
		c.overlay = nil
		c.analysisErr = fmt.Sprintf("analysis failed: %v", err)
		c.logger.WithFields(logrus.Fields{
			logging.FieldCaseID: c.current.ID,
			logging.FieldError:  err,
		}).Warn("analysis failed")
		return err
	}

	if entries == nil {
		entries = []models.AnalysisEntry{}
	}
	c.overlay = entries
	c.analysisErr = ""
	c.logger.WithFields(logrus.Fields{
		logging.FieldCaseID: c.current.ID,
		logging.FieldCount:  len(entries),
	}).Info("analysis completed")
	return nil
}

// Reset drops the held case, overlay and errors. Called when leaving detail
// mode; detail state is scoped to the currently viewed case. Bumping the
// token invalidates any hydrate still in flight, so a late response cannot
// repopulate state that was just torn down.
func (c *DetailController) Reset() {
	c.hydrateToken++
	c.current = nil
	c.overlay = nil
	c.err = ""
	c.analysisErr = ""
}

// Case returns a snapshot copy of the hydrated case, or nil when none is
// loaded.
func (c *DetailController) Case() *models.Case {
	if c.current == nil {
		return nil
	}
	cs := c.current.Clone()
	return &cs
}

// Flags joins the overlay against the current transaction list. It is
// recomputed on every call, never cached: a flagged id that no longer exists
// in the list simply produces no flag.
func (c *DetailController) Flags() map[int64]string {
	flags := make(map[int64]string)
	if c.current == nil || c.overlay == nil {
		return flags
	}

	reasons := make(map[int64]string, len(c.overlay))
	for _, e := range c.overlay {
		reasons[e.ID] = e.Reason
	}
	for _, tx := range c.current.Transactions {
		if reason, ok := reasons[tx.ID]; ok {
			flags[tx.ID] = reason
		}
	}
	return flags
}

// HasAnalysis reports whether an analysis result (possibly empty) is held.
func (c *DetailController) HasAnalysis() bool {
	return c.overlay != nil
}

// AnomalyCount returns the number of entries in the current overlay.
func (c *DetailController) AnomalyCount() int {
	return len(c.overlay)
}

// Err returns the current detail-scoped error message, if any.
func (c *DetailController) Err() string {
	return c.err
}

// AnalysisErr returns the current analysis-scoped error message, if any.
func (c *DetailController) AnalysisErr() string {
	return c.analysisErr
}
