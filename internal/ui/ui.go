// Package ui is the presentation surface: a tview terminal frontend that
// renders immutable snapshots published by the controllers and forwards user
// intents back to them. All view-state rules live in internal/controller;
// this package only draws and routes.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/fincase/console-fin/internal/controller"
	"github.com/fincase/console-fin/internal/models"
)

const (
	pageList    = "list"
	pageDetail  = "detail"
	pageConfirm = "confirm"
)

// UI owns the tview widget tree and the root controller.
type UI struct {
	app    *tview.Application
	ctrl   *controller.App
	logger *logrus.Logger
	theme  Theme
	ctx    context.Context

	pages *tview.Pages

	// List screen
	caseTable  *tview.Table
	caseForm   *tview.Form
	listStatus *tview.TextView

	// Detail screen
	caseHeader   *tview.TextView
	txTable      *tview.Table
	txForm       *tview.Form
	detailStatus *tview.TextView

	// Transaction draft, held here until submitted
	txAmount string
	txDate   string
	txDesc   string

	// intentMu serializes every controller access: intents off the draw
	// goroutine, and local actions plus typed input on it. Nothing touches
	// the controllers without holding it.
	intentMu sync.Mutex

	// Guards against input-changed callbacks firing during render
	rendering bool
}

// New builds the UI on top of the given store.
func New(ctx context.Context, store controller.CaseStore, logger *logrus.Logger) *UI {
	u := &UI{
		app:    tview.NewApplication(),
		logger: logger,
		theme:  themeDark(),
		ctx:    ctx,
		txDate: models.Today().String(),
	}
	u.ctrl = controller.NewApp(store, u.confirm, logger)
	u.ctrl.Form.SetOnEdit(func() {
		u.app.SetFocus(u.caseForm)
	})

	u.setupListScreen()
	u.setupDetailScreen()

	u.pages = tview.NewPages()
	u.pages.AddPage(pageList, u.listLayout(), true, true)
	u.pages.AddPage(pageDetail, u.detailLayout(), true, false)

	u.app.SetRoot(u.pages, true)
	return u
}

// Run fetches the initial case list and enters the event loop.
func (u *UI) Run() error {
	u.logger.Debug("ui starting")
	_ = u.ctrl.List.Refresh(u.ctx)
	u.render()
	return u.app.Run()
}

// intent executes a controller operation off the draw goroutine and
// re-renders when it completes. The snapshot is taken while the lock is
// still held so the draw never observes a half-applied mutation.
func (u *UI) intent(fn func(ctx context.Context)) {
	u.intentThen(fn, nil)
}

// intentThen is intent with a follow-up executed on the draw goroutine just
// before the redraw.
func (u *UI) intentThen(fn func(ctx context.Context), after func()) {
	go func() {
		u.intentMu.Lock()
		fn(u.ctx)
		snap := u.ctrl.Snapshot()
		u.intentMu.Unlock()
		u.app.QueueUpdateDraw(func() {
			if after != nil {
				after()
			}
			u.renderSnapshot(snap)
		})
	}()
}

// uiAction runs a local controller operation, serialized against intents.
// The draw goroutine must never block on intentMu (an intent waiting to
// post its confirm modal could then never be serviced), so when an intent
// holds the lock the action is queued behind it instead of waiting.
func (u *UI) uiAction(fn func()) {
	if u.intentMu.TryLock() {
		fn()
		snap := u.ctrl.Snapshot()
		u.intentMu.Unlock()
		u.renderSnapshot(snap)
		return
	}
	u.intent(func(context.Context) { fn() })
}

// editDraft mirrors typed input into a controller-owned draft. No redraw:
// the field being typed in already shows the text.
func (u *UI) editDraft(fn func()) {
	if u.intentMu.TryLock() {
		fn()
		u.intentMu.Unlock()
		return
	}
	go func() {
		u.intentMu.Lock()
		fn()
		u.intentMu.Unlock()
	}()
}

// confirm is the injected confirmation gate. It blocks the calling intent
// until the user picks a button; until then no request is issued.
func (u *UI) confirm(message string) bool {
	result := make(chan bool, 1)
	u.app.QueueUpdateDraw(func() {
		modal := tview.NewModal().
			SetText(message).
			AddButtons([]string{"Delete", "Cancel"}).
			SetDoneFunc(func(index int, label string) {
				u.pages.RemovePage(pageConfirm)
				result <- label == "Delete"
			})
		u.pages.AddPage(pageConfirm, modal, true, true)
	})
	return <-result
}

// --- List screen ---

func (u *UI) setupListScreen() {
	u.caseForm = tview.NewForm().
		AddInputField("Title", "", 40, nil, func(text string) {
			if !u.rendering {
				u.editDraft(func() { u.ctrl.Form.SetTitle(text) })
			}
		}).
		AddInputField("Description", "", 40, nil, func(text string) {
			if !u.rendering {
				u.editDraft(func() { u.ctrl.Form.SetDescription(text) })
			}
		}).
		AddButton("Save", func() {
			u.intent(u.ctrl.SubmitForm)
		}).
		AddButton("Cancel", func() {
			u.uiAction(u.ctrl.CancelEdit)
		})
	u.caseForm.SetBorder(true).SetTitle(" New Case ").SetTitleAlign(tview.AlignLeft)

	u.caseTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	u.caseTable.SetBorder(true).SetTitle(" Cases ").SetTitleAlign(tview.AlignLeft)

	u.caseTable.SetSelectedFunc(func(row, col int) {
		if id, ok := u.caseIDAt(row); ok {
			u.intent(func(ctx context.Context) { u.ctrl.ViewDetails(ctx, id) })
		}
	})
	u.caseTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			u.app.SetFocus(u.caseForm)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'e':
				u.editSelectedCase()
				return nil
			case 'd':
				u.deleteSelectedCase()
				return nil
			case 'r':
				u.intent(func(ctx context.Context) { _ = u.ctrl.List.Refresh(ctx) })
				return nil
			case 'q':
				u.app.Stop()
				return nil
			}
		}
		return event
	})

	u.listStatus = tview.NewTextView().SetDynamicColors(true)
}

func (u *UI) listLayout() *tview.Flex {
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.caseForm, 9, 0, false).
		AddItem(u.caseTable, 0, 1, true).
		AddItem(u.listStatus, 1, 0, false)
	layout.SetBackgroundColor(u.theme.Bg)
	return layout
}

// caseIDAt maps a table row back to a case id. Row 0 is the header.
func (u *UI) caseIDAt(row int) (int64, bool) {
	if row <= 0 {
		return 0, false
	}
	cell := u.caseTable.GetCell(row, 0)
	if cell == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(cell.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (u *UI) editSelectedCase() {
	row, _ := u.caseTable.GetSelection()
	id, ok := u.caseIDAt(row)
	if !ok {
		return
	}
	u.uiAction(func() {
		if target, ok := u.ctrl.List.Find(id); ok {
			u.ctrl.Edit(target)
		}
	})
}

func (u *UI) deleteSelectedCase() {
	row, _ := u.caseTable.GetSelection()
	id, ok := u.caseIDAt(row)
	if !ok {
		return
	}
	u.intent(func(ctx context.Context) { u.ctrl.RemoveCase(ctx, id) })
}

// --- Detail screen ---

func (u *UI) setupDetailScreen() {
	u.caseHeader = tview.NewTextView().SetDynamicColors(true)
	u.caseHeader.SetBorder(true).SetTitle(" Case ").SetTitleAlign(tview.AlignLeft)

	u.txTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	u.txTable.SetBorder(true).SetTitle(" Transactions ").SetTitleAlign(tview.AlignLeft)
	u.txTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEsc:
			u.uiAction(u.ctrl.Back)
			return nil
		case tcell.KeyTab:
			u.app.SetFocus(u.txForm)
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'a':
				u.intent(func(ctx context.Context) { _ = u.ctrl.Detail.Analyze(ctx) })
				return nil
			case 'd':
				u.deleteSelectedTransaction()
				return nil
			}
		}
		return event
	})

	u.txForm = tview.NewForm().
		AddInputField("Amount", "", 20, nil, func(text string) {
			if !u.rendering {
				u.txAmount = text
			}
		}).
		AddInputField("Date", u.txDate, 20, nil, func(text string) {
			if !u.rendering {
				u.txDate = text
			}
		}).
		AddInputField("Description", "", 40, nil, func(text string) {
			if !u.rendering {
				u.txDesc = text
			}
		}).
		AddButton("Add", u.submitTransaction).
		AddButton("Back", func() {
			u.uiAction(u.ctrl.Back)
		})
	u.txForm.SetBorder(true).SetTitle(" New Transaction ").SetTitleAlign(tview.AlignLeft)

	u.detailStatus = tview.NewTextView().SetDynamicColors(true)
}

func (u *UI) detailLayout() *tview.Flex {
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.caseHeader, 5, 0, false).
		AddItem(u.txTable, 0, 1, true).
		AddItem(u.txForm, 11, 0, false).
		AddItem(u.detailStatus, 1, 0, false)
	layout.SetBackgroundColor(u.theme.Bg)
	return layout
}

func (u *UI) txIDAt(row int) (int64, bool) {
	if row <= 0 {
		return 0, false
	}
	cell := u.txTable.GetCell(row, 0)
	if cell == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(cell.Text, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (u *UI) deleteSelectedTransaction() {
	row, _ := u.txTable.GetSelection()
	id, ok := u.txIDAt(row)
	if !ok {
		return
	}
	u.intent(func(ctx context.Context) { u.ctrl.Detail.DeleteTransaction(ctx, id) })
}

// submitTransaction builds a draft from the form fields. Parse failures are
// shown inline without reaching the controller; the controller re-validates
// sign and date presence before any request goes out.
func (u *UI) submitTransaction() {
	amount, err := models.ParseAmount(u.txAmount)
	if err != nil {
		u.detailStatus.SetText(fmt.Sprintf("[%s]amount must be a positive number[-]", u.theme.TagError))
		return
	}

	var date models.Date
	if u.txDate != "" {
		date, err = models.ParseDate(u.txDate)
		if err != nil {
			u.detailStatus.SetText(fmt.Sprintf("[%s]date must be YYYY-MM-DD[-]", u.theme.TagError))
			return
		}
	}

	draft := models.TransactionDraft{
		Amount:          amount,
		TransactionDate: date,
		Description:     u.txDesc,
	}
	var accepted bool
	u.intentThen(func(ctx context.Context) {
		accepted = u.ctrl.Detail.AddTransaction(ctx, draft) == nil
	}, func() {
		// Inputs are cleared only after the server confirmed. The draft
		// fields belong to the draw goroutine, so the clear runs there.
		if accepted {
			u.txAmount = ""
			u.txDesc = ""
			u.txDate = models.Today().String()
		}
	})
}

// --- Rendering ---

// render takes a fresh snapshot and redraws. Only for single-threaded use
// before the event loop starts; everything after goes through intent or
// uiAction, which capture the snapshot under the lock.
func (u *UI) render() {
	u.renderSnapshot(u.ctrl.Snapshot())
}

// renderSnapshot redraws the whole surface from the given snapshot.
func (u *UI) renderSnapshot(snap controller.Snapshot) {
	u.rendering = true
	defer func() { u.rendering = false }()

	switch snap.Mode {
	case controller.ModeDetail:
		u.renderDetail(snap)
		u.pages.SwitchToPage(pageDetail)
	default:
		u.renderList(snap)
		u.pages.SwitchToPage(pageList)
	}
}

func (u *UI) renderList(snap controller.Snapshot) {
	// Form reflects the controller-owned draft.
	title := u.caseForm.GetFormItem(0).(*tview.InputField)
	desc := u.caseForm.GetFormItem(1).(*tview.InputField)
	title.SetText(snap.FormTitle)
	desc.SetText(snap.FormDesc)
	if snap.FormMode == controller.FormEdit {
		u.caseForm.SetTitle(fmt.Sprintf(" Edit Case #%d ", snap.FormTarget))
	} else {
		u.caseForm.SetTitle(" New Case ")
	}

	u.caseTable.Clear()
	headers := []string{"ID", "Title", "Status", "Description"}
	for col, h := range headers {
		u.caseTable.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(u.theme.TableHeader).
			SetBackgroundColor(u.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	for i, cs := range snap.Cases {
		row := i + 1
		u.caseTable.SetCell(row, 0, tview.NewTableCell(strconv.FormatInt(cs.ID, 10)))
		u.caseTable.SetCell(row, 1, tview.NewTableCell(cs.Title))
		u.caseTable.SetCell(row, 2, tview.NewTableCell(cs.Status).SetTextColor(u.theme.TextMuted))
		u.caseTable.SetCell(row, 3, tview.NewTableCell(cs.Description).SetTextColor(u.theme.TextMuted))
	}

	switch {
	case snap.Flash != "":
		u.listStatus.SetText(fmt.Sprintf("[%s]%s[-]", u.theme.TagError, snap.Flash))
	case snap.FormErr != "":
		u.listStatus.SetText(fmt.Sprintf("[%s]%s[-]", u.theme.TagError, snap.FormErr))
	case snap.ListErr != "":
		u.listStatus.SetText(fmt.Sprintf("[%s]%s[-]", u.theme.TagError, snap.ListErr))
	default:
		u.listStatus.SetText(fmt.Sprintf("[%s]%d cases | Enter view  e edit  d delete  r refresh  q quit[-]",
			u.theme.TagMuted, len(snap.Cases)))
	}
}

func (u *UI) renderDetail(snap controller.Snapshot) {
	cs := snap.Case
	if cs == nil {
		return
	}

	u.caseHeader.SetText(fmt.Sprintf("[%s]#%d[-] %s\n[%s]Status:[-] %s\n[%s]Description:[-] %s",
		u.theme.TagAccent, cs.ID, cs.Title,
		u.theme.TagMuted, cs.Status,
		u.theme.TagMuted, cs.Description))

	u.txTable.Clear()
	headers := []string{"ID", "Date", "Amount", "Description", "Flag"}
	for col, h := range headers {
		u.txTable.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(u.theme.TableHeader).
			SetBackgroundColor(u.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	for i, tx := range cs.Transactions {
		row := i + 1
		reason, flagged := snap.Flags[tx.ID]

		cells := []*tview.TableCell{
			tview.NewTableCell(strconv.FormatInt(tx.ID, 10)),
			tview.NewTableCell(tx.TransactionDate.String()),
			tview.NewTableCell(tx.Amount.StringFixed(2)).SetAlign(tview.AlignRight),
			tview.NewTableCell(tx.Description).SetTextColor(u.theme.TextMuted),
			tview.NewTableCell(reason),
		}
		for col, cell := range cells {
			if flagged {
				cell.SetBackgroundColor(u.theme.FlaggedBg).SetTextColor(u.theme.FlaggedFg)
			}
			u.txTable.SetCell(row, col, cell)
		}
	}

	amount := u.txForm.GetFormItem(0).(*tview.InputField)
	date := u.txForm.GetFormItem(1).(*tview.InputField)
	desc := u.txForm.GetFormItem(2).(*tview.InputField)
	amount.SetText(u.txAmount)
	date.SetText(u.txDate)
	desc.SetText(u.txDesc)

	switch {
	case snap.AnalysisErr != "":
		u.detailStatus.SetText(fmt.Sprintf("[%s]%s[-]", u.theme.TagError, snap.AnalysisErr))
	case snap.DetailErr != "":
		u.detailStatus.SetText(fmt.Sprintf("[%s]%s[-]", u.theme.TagError, snap.DetailErr))
	case snap.HasAnalysis && snap.Anomalies == 0:
		u.detailStatus.SetText(fmt.Sprintf("[%s]Analysis complete: no anomalies found[-]", u.theme.TagSuccess))
	case snap.HasAnalysis:
		u.detailStatus.SetText(fmt.Sprintf("[%s]Analysis complete: %d anomalous transaction(s) flagged[-]",
			u.theme.TagWarning, snap.Anomalies))
	default:
		u.detailStatus.SetText(fmt.Sprintf("[%s]%d transactions | a analyze  d delete  Esc back[-]",
			u.theme.TagMuted, len(cs.Transactions)))
	}
}
