// Package tui is the interactive task manager.
//
// It follows the Elm architecture of bubbletea: every controller call happens
// in Update, and store calls run as tea.Cmds whose Results are applied when
// they come back.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskchain/internal/controller"
	"taskchain/internal/service"
)

// screen is which view is showing.
type screen int

const (
	screenBrowse screen = iota // task list
	screenNew                  // new-task form
	screenEdit                 // edit form for one task
)

// form fields, in tab order.
const (
	fieldName = iota
	fieldDescription
	fieldStatus
	fieldCount
)

type action int

const (
	actionRefresh action = iota
	actionCreate
	actionUpdate
	actionDelete
)

func (a action) String() string {
	switch a {
	case actionCreate:
		return "created"
	case actionUpdate:
		return "saved"
	case actionDelete:
		return "deleted"
	default:
		return "refreshed"
	}
}

// opResultMsg carries a finished controller.Op back into Update.
type opResultMsg struct {
	action action
	res    controller.Result
}

// App is the bubbletea model.
type App struct {
	ctx context.Context
	ctl *controller.Controller

	screen screen
	cursor int

	inputs [2]textinput.Model
	status service.Status
	focus  int
	saving bool

	inFlight  int
	statusMsg string
	err       error

	width  int
	height int
}

// New creates the model. The collection is loaded by Init.
func New(ctx context.Context, ctl *controller.Controller) *App {
	a := &App{ctx: ctx, ctl: ctl, status: service.StatusPending}
	for i, placeholder := range []string{"name", "description"} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Cursor.SetMode(cursor.CursorStatic)
		a.inputs[i] = ti
	}
	return a
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, ctl *controller.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(ctx, ctl), opts...).Run()
	return err
}

func (a *App) Init() tea.Cmd {
	return a.run(actionRefresh, a.ctl.PrepareRefresh())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case opResultMsg:
		return a, a.applyResult(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == screenBrowse {
			return a, a.updateBrowse(msg)
		}
		return a, a.updateForm(msg)
	}
	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	tasks := a.ctl.Tasks()

	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(tasks)-1 {
			a.cursor++
		}
	case "r":
		return a.run(actionRefresh, a.ctl.PrepareRefresh())
	case "n":
		a.openNew()
	case "e", "enter":
		if len(tasks) == 0 {
			return nil
		}
		if err := a.ctl.BeginEdit(tasks[a.cursor].ID); err != nil {
			a.setError(err)
			return nil
		}
		a.openEdit()
	case "d", "x":
		if len(tasks) == 0 {
			return nil
		}
		return a.run(actionDelete, a.ctl.PrepareDelete(tasks[a.cursor].ID))
	}
	return nil
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	if a.saving {
		return nil
	}

	switch msg.String() {
	case "esc":
		a.closeForm()
		return nil
	case "tab", "down":
		a.setFocus((a.focus + 1) % fieldCount)
		return nil
	case "shift+tab", "up":
		a.setFocus((a.focus + fieldCount - 1) % fieldCount)
		return nil
	case "enter":
		return a.save()
	}

	if a.focus == fieldStatus {
		switch msg.String() {
		case "left", "h":
			a.status = a.status.Prev()
		case "right", "l", " ":
			a.status = a.status.Next()
		}
		a.syncDraft()
		return nil
	}

	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	a.syncDraft()
	return cmd
}

func (a *App) openNew() {
	d := a.ctl.Draft()
	a.loadForm(d.Name, d.Description, d.Status)
	a.screen = screenNew
	a.clearStatus()
}

func (a *App) openEdit() {
	t, _ := a.ctl.Editing()
	a.loadForm(t.Name, t.Description, t.Status)
	a.screen = screenEdit
	a.clearStatus()
}

func (a *App) loadForm(name, description string, status service.Status) {
	a.inputs[fieldName].SetValue(name)
	a.inputs[fieldDescription].SetValue(description)
	for i := range a.inputs {
		a.inputs[i].CursorEnd()
	}
	a.status = status
	a.saving = false
	a.setFocus(fieldName)
}

// closeForm leaves the form. The new-task draft survives; an edit draft is discarded.
func (a *App) closeForm() {
	if a.screen == screenEdit {
		a.ctl.CancelEdit()
	}
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	a.screen = screenBrowse
	a.saving = false
}

func (a *App) setFocus(field int) {
	a.focus = field
	for i := range a.inputs {
		if i == field {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

func (a *App) formFields() service.Fields {
	return service.Fields{
		Name:        a.inputs[fieldName].Value(),
		Description: a.inputs[fieldDescription].Value(),
		Status:      a.status,
	}
}

// syncDraft mirrors the new-task form into the controller draft.
func (a *App) syncDraft() {
	if a.screen != screenNew {
		return
	}
	f := a.formFields()
	a.ctl.SetDraft(controller.Draft{Name: f.Name, Description: f.Description, Status: f.Status})
}

func (a *App) save() tea.Cmd {
	switch a.screen {
	case screenNew:
		a.syncDraft()
		op, err := a.ctl.PrepareCreate()
		if err != nil {
			a.setError(err)
			return nil
		}
		a.saving = true
		return a.run(actionCreate, op)

	case screenEdit:
		if err := a.ctl.SetEdit(a.formFields()); err != nil {
			a.setError(err)
			return nil
		}
		op, ok := a.ctl.PrepareUpdate()
		if !ok {
			a.closeForm()
			return nil
		}
		a.saving = true
		return a.run(actionUpdate, op)
	}
	return nil
}

func (a *App) run(act action, op controller.Op) tea.Cmd {
	ctx := a.ctx
	a.inFlight++
	return func() tea.Msg {
		return opResultMsg{action: act, res: op.Run(ctx)}
	}
}

func (a *App) applyResult(msg opResultMsg) tea.Cmd {
	a.inFlight--
	err := a.ctl.Apply(msg.res)

	switch msg.action {
	case actionCreate:
		if a.screen == screenNew {
			a.saving = false
			if a.ctl.Draft() == controller.NewDraft() {
				a.closeForm()
			}
		}
	case actionUpdate:
		if a.screen == screenEdit {
			a.saving = false
			if a.ctl.Mode() == controller.Idle {
				a.closeForm()
			}
		}
	case actionDelete:
		if a.screen == screenEdit && a.ctl.Mode() == controller.Idle {
			a.closeForm()
		}
	}

	a.clampCursor()
	if err != nil {
		a.setError(err)
		return nil
	}
	a.err = nil
	if msg.action != actionRefresh {
		a.statusMsg = msg.action.String()
	}
	return nil
}

func (a *App) clampCursor() {
	n := len(a.ctl.Tasks())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusMsg = ""
}

func (a *App) clearStatus() {
	a.err = nil
	a.statusMsg = ""
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("taskchain"))
	b.WriteString("\n\n")

	switch a.screen {
	case screenBrowse:
		b.WriteString(a.viewBrowse())
	case screenNew:
		b.WriteString(headingStyle.Render("New task"))
		b.WriteString("\n\n")
		b.WriteString(a.viewForm())
	case screenEdit:
		b.WriteString(headingStyle.Render("Edit task"))
		b.WriteString("\n\n")
		b.WriteString(a.viewForm())
	}

	b.WriteString("\n")
	b.WriteString(a.viewStatusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(a.helpText()))
	return b.String()
}

func (a *App) viewBrowse() string {
	tasks := a.ctl.Tasks()
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks. Press n to add one.") + "\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		marker := "  "
		name := t.Name
		if i == a.cursor {
			marker = cursorStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", marker, statusBadge(t.Status), name,
			mutedStyle.Render("- "+t.Description))
	}
	return b.String()
}

func (a *App) viewForm() string {
	var b strings.Builder
	labels := [fieldCount]string{"Name", "Description", "Status"}
	for i := 0; i < fieldCount; i++ {
		label := labelStyle.Render(labels[i] + ":")
		if i == a.focus {
			label = focusedLabelStyle.Render(labels[i] + ":")
		}
		b.WriteString(label)
		b.WriteString(" ")
		if i == fieldStatus {
			b.WriteString(mutedStyle.Render("< "))
			b.WriteString(statusBadge(a.status))
			b.WriteString(mutedStyle.Render(" >"))
		} else {
			b.WriteString(a.inputs[i].View())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewStatusLine() string {
	switch {
	case a.err != nil:
		return errorStyle.Render("error: " + a.err.Error())
	case a.saving || a.inFlight > 0:
		return mutedStyle.Render("working...")
	case a.statusMsg != "":
		return okStyle.Render(a.statusMsg)
	}
	return ""
}

func (a *App) helpText() string {
	if a.screen == screenBrowse {
		return "n new · e/enter edit · d delete · r refresh · q quit"
	}
	return "tab next field · ←/→ status · enter save · esc back"
}
