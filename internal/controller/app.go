package controller

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/logging"
	"github.com/fincase/console-fin/internal/models"
)

// Mode selects which view the presentation surface shows.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

// App is the root view controller: a small state machine selecting between
// list mode and detail mode, composing the three child controllers and
// routing user intents and refresh notifications between them. Detail mode
// is tagged by the selected case id.
type App struct {
	List   *ListController
	Form   *FormController
	Detail *DetailController

	logger *logrus.Logger

	mode           Mode
	selectedCaseID int64
	flash          string // error surfaced on the list screen by a failed transition
}

// NewApp wires the root controller. confirm gates all destructive operations
// and is injected so tests can drive it deterministically.
func NewApp(store CaseStore, confirm ConfirmFunc, logger *logrus.Logger) *App {
	if logger == nil {
		logger = logrus.New()
	}
	return &App{
		List:   NewListController(store, confirm, logger),
		Form:   NewFormController(store, logger),
		Detail: NewDetailController(store, confirm, logger),
		logger: logger,
	}
}

// Mode returns the current view mode.
func (a *App) Mode() Mode {
	return a.mode
}

// SelectedCaseID returns the id tagged on detail mode, or 0 in list mode.
func (a *App) SelectedCaseID() int64 {
	return a.selectedCaseID
}

// Flash returns the transition error surfaced on the list screen, if any.
func (a *App) Flash() string {
	return a.flash
}

// ViewDetails transitions List -> Detail by hydrating the requested case.
// On failure the app stays in list mode and surfaces the error; a detail
// view with no data is never shown.
func (a *App) ViewDetails(ctx context.Context, id int64) {
	if err := a.Detail.Hydrate(ctx, id); err != nil {
		a.mode = ModeList
		a.selectedCaseID = 0
		a.Detail.Reset()
		a.flash = err.Error()
		return
	}
	if cs := a.Detail.Case(); cs == nil || cs.ID != id {
		// The hydrate was invalidated while in flight (Back or a newer
		// navigation won); keep the current mode rather than opening an
		// empty detail view.
		return
	}
	a.mode = ModeDetail
	a.selectedCaseID = id
	a.flash = ""
	a.logger.WithField(logging.FieldCaseID, id).Debug("entered detail mode")
}

// Back transitions Detail -> List, destroying the held detail state and
// overlay. The list keeps its last-fetched contents; no automatic refresh.
func (a *App) Back() {
	a.mode = ModeList
	a.selectedCaseID = 0
	a.Detail.Reset()
}

// Edit routes a case into the form's edit mode. Editing is only surfaced
// from the list view, so a detail view is closed first.
func (a *App) Edit(target models.Case) {
	if a.mode == ModeDetail {
		a.Back()
	}
	a.Form.Edit(target)
}

// CancelEdit reverts the form to create mode without any network call.
func (a *App) CancelEdit() {
	a.Form.Cancel()
}

// SubmitForm submits the case draft and routes the outcome: any success
// refreshes the list, and a successful update of the currently open case
// additionally re-hydrates the detail view to keep both in sync.
func (a *App) SubmitForm(ctx context.Context) {
	result, saved := a.Form.Submit(ctx)
	switch result {
	case SubmitNone:
		return
	case SubmitCreated:
		_ = a.List.Refresh(ctx)
	case SubmitUpdated:
		_ = a.List.Refresh(ctx)
		if a.mode == ModeDetail && a.selectedCaseID == saved.ID {
			_ = a.Detail.Hydrate(ctx, saved.ID)
		}
	}
}

// RemoveCase deletes a case from the list after confirmation. If the removed
// case is currently open in detail mode, the detail view is closed.
func (a *App) RemoveCase(ctx context.Context, id int64) {
	if !a.List.Remove(ctx, id) {
		return
	}
	if a.mode == ModeDetail && a.selectedCaseID == id {
		a.Back()
	}
}

// Snapshot captures the full render model for the presentation surface.
type Snapshot struct {
	Mode  Mode
	Flash string

	Cases   []models.Case
	ListErr string

	FormMode   FormMode
	FormTarget int64
	FormTitle  string
	FormDesc   string
	FormErr    string

	Case        *models.Case
	Flags       map[int64]string
	HasAnalysis bool
	Anomalies   int
	DetailErr   string
	AnalysisErr string
}

// Snapshot publishes an immutable view model of the whole application state.
// The overlay join is recomputed here on every render.
func (a *App) Snapshot() Snapshot {
	return Snapshot{
		Mode:  a.mode,
		Flash: a.flash,

		Cases:   a.List.Cases(),
		ListErr: a.List.Err(),

		FormMode:   a.Form.Mode(),
		FormTarget: a.Form.TargetID(),
		FormTitle:  a.Form.Title(),
		FormDesc:   a.Form.Description(),
		FormErr:    a.Form.Err(),

		Case:        a.Detail.Case(),
		Flags:       a.Detail.Flags(),
		HasAnalysis: a.Detail.HasAnalysis(),
		Anomalies:   a.Detail.AnomalyCount(),
		DetailErr:   a.Detail.Err(),
		AnalysisErr: a.Detail.AnalysisErr(),
	}
}
