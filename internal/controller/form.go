package controller

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/logging"
	"github.com/fincase/console-fin/internal/models"
)

// FormMode distinguishes creating a new case from editing an existing one.
type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// SubmitResult tells the caller how a successful submit must be routed: an
// update may additionally require re-hydrating an open detail view, a create
// only needs a list refresh.
type SubmitResult int

const (
	SubmitNone SubmitResult = iota
	SubmitCreated
	SubmitUpdated
)

// FormController owns the case draft. In edit mode it holds a reference to
// the case being edited but never mutates it directly; it only submits a
// replacement payload.
type FormController struct {
	store  CaseStore
	logger *logrus.Logger

	mode        FormMode
	target      models.Case
	title       string
	description string
	err         string

	// onEdit, when set, asks the presentation surface to bring the form
	// into view after entering edit mode.
	onEdit func()
}

// NewFormController creates a form controller in create mode with an empty
// draft.
func NewFormController(store CaseStore, logger *logrus.Logger) *FormController {
	return &FormController{store: store, logger: logger}
}

// SetOnEdit registers the surface callback invoked when edit mode is entered.
func (c *FormController) SetOnEdit(fn func()) {
	c.onEdit = fn
}

// SetTitle records the draft title as typed.
func (c *FormController) SetTitle(s string) {
	c.title = s
}

// SetDescription records the draft description as typed.
func (c *FormController) SetDescription(s string) {
	c.description = s
}

// Edit enters edit mode, seeding the draft from the target's current fields.
func (c *FormController) Edit(target models.Case) {
	c.mode = FormEdit
	c.target = target
	c.title = target.Title
	c.description = target.Description
	c.err = ""
	c.logger.WithField(logging.FieldCaseID, target.ID).Debug("editing case")
	if c.onEdit != nil {
		c.onEdit()
	}
}

// Cancel reverts edit mode to create mode and discards the draft. No network
// call is made and the target case is unchanged everywhere.
func (c *FormController) Cancel() {
	c.reset()
}

// Submit validates the draft and performs create-or-update depending on the
// current mode. On success the draft is cleared and the mode reverts to
// create; on any failure the draft is preserved so typed input is not lost.
func (c *FormController) Submit(ctx context.Context) (SubmitResult, models.Case) {
	if strings.TrimSpace(c.title) == "" {
		verr := &ValidationError{Field: "title", Message: "title is required"}
		c.err = verr.Message
		return SubmitNone, models.Case{}
	}

	draft := models.CaseDraft{
		Title:       c.title,
		Description: c.description,
	}

	var (
		saved  models.Case
		err    error
		result SubmitResult
	)
	if c.mode == FormEdit {
		saved, err = c.store.UpdateCase(ctx, c.target.ID, draft)
		result = SubmitUpdated
	} else {
		saved, err = c.store.CreateCase(ctx, draft)
		result = SubmitCreated
	}
	if err != nil {
		c.err = err.Error()
		c.logger.WithField(logging.FieldError, err).Warn("case submit failed")
		return SubmitNone, models.Case{}
	}

	c.reset()
	c.logger.WithFields(logrus.Fields{
		logging.FieldCaseID: saved.ID,
		logging.FieldMode:   result,
	}).Info("case saved")
	return result, saved
}

func (c *FormController) reset() {
	c.mode = FormCreate
	c.target = models.Case{}
	c.title = ""
	c.description = ""
	c.err = ""
}

// Mode returns the current form mode.
func (c *FormController) Mode() FormMode {
	return c.mode
}

// TargetID returns the id of the case being edited, or 0 in create mode.
func (c *FormController) TargetID() int64 {
	if c.mode != FormEdit {
		return 0
	}
	return c.target.ID
}

// Title returns the current draft title.
func (c *FormController) Title() string {
	return c.title
}

// Description returns the current draft description.
func (c *FormController) Description() string {
	return c.description
}

// Err returns the current form-scoped error message, if any.
func (c *FormController) Err() string {
	return c.err
}
