package controller

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/logging"
	"github.com/fincase/console-fin/internal/models"
)

// ListController owns the authoritative list of case summaries shown in list
// mode. Every mutation elsewhere is followed by a Refresh rather than a local
// patch; the server stays the sole source of truth.
type ListController struct {
	store   CaseStore
	confirm ConfirmFunc
	logger  *logrus.Logger

	cases []models.Case
	err   string
}

// NewListController creates a list controller with an empty list.
func NewListController(store CaseStore, confirm ConfirmFunc, logger *logrus.Logger) *ListController {
	return &ListController{
		store:   store,
		confirm: confirm,
		logger:  logger,
	}
}

// Refresh fetches all case summaries and publishes them sorted by id
// descending. The ordering is part of the contract: ids are assigned
// monotonically, so newest cases come first. On failure the previous list is
// kept and a list-scoped error is published.
func (c *ListController) Refresh(ctx context.Context) error {
	cases, err := c.store.ListCases(ctx)
	if err != nil {
		c.err = err.Error()
		c.logger.WithField(logging.FieldError, err).Warn("case list refresh failed")
		return err
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].ID > cases[j].ID
	})
	c.cases = cases
	c.err = ""
	c.logger.WithField(logging.FieldCount, len(cases)).Debug("case list refreshed")
	return nil
}

// Remove deletes a case after the confirmation gate is satisfied. Declining
// issues no request and changes no state. On success the list is refreshed;
// on failure the list is left unchanged so a case the server refused to
// delete is never shown as gone.
func (c *ListController) Remove(ctx context.Context, id int64) bool {
	msg := fmt.Sprintf("Delete case #%d? All of its transactions will be deleted with it.", id)
	if !c.confirm(msg) {
		return false
	}

	if err := c.store.DeleteCase(ctx, id); err != nil {
		c.err = fmt.Sprintf("delete case failed: %v", err)
		c.logger.WithFields(logrus.Fields{
			logging.FieldCaseID: id,
			logging.FieldError:  err,
		}).Warn("case delete failed")
		return false
	}

	c.logger.WithField(logging.FieldCaseID, id).Info("case deleted")
	_ = c.Refresh(ctx)
	return true
}

// Cases returns a snapshot copy of the current summaries, newest first.
func (c *ListController) Cases() []models.Case {
	out := make([]models.Case, len(c.cases))
	for i, cs := range c.cases {
		out[i] = cs.Clone()
	}
	return out
}

// Find returns the summary with the given id, if present.
func (c *ListController) Find(id int64) (models.Case, bool) {
	for _, cs := range c.cases {
		if cs.ID == id {
			return cs.Clone(), true
		}
	}
	return models.Case{}, false
}

// Err returns the current list-scoped error message, if any.
func (c *ListController) Err() string {
	return c.err
}
