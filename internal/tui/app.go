package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/dateutil"
	"sprintboard-cli/internal/model"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeFilter
	modeConfirmArchive
)

type archiveDoneMsg struct{}

type appModel struct {
	ctrl *controller.Controller
	pres *presenter

	width  int
	height int

	mode      mode
	rows      []model.TaskRow
	rowsList  list.Model
	addInput  addModel
	filterBox filterModel

	archiving bool

	toast      string
	toastSev   controller.Severity
	toastSeq   int
	todayCache model.Date
}

type rowItem struct {
	row   model.TaskRow
	today model.Date
}

func (i rowItem) Title() string {
	return statusGlyph(i.row.Status) + " " + i.row.TaskName
}

func (i rowItem) Description() string {
	parts := []string{statusLabel(i.row.Status)}
	if i.row.AssignedTo != nil && strings.TrimSpace(*i.row.AssignedTo) != "" {
		parts = append(parts, *i.row.AssignedTo)
	}
	if i.row.Status != model.StatusCompleted {
		parts = append(parts, dateutil.DaysText(i.row.Deadline, i.today))
	} else if i.row.CompletedDate != nil {
		parts = append(parts, "Done "+dateutil.FormatDisplay(*i.row.CompletedDate, i.today))
	}
	return strings.Join(parts, " · ")
}

func (i rowItem) FilterValue() string {
	return i.row.TaskName
}

func newAppModel(ctrl *controller.Controller, pres *presenter) appModel {
	initColorProfile()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(colorSelectedFg).BorderForeground(colorSelectedFg)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(colorMuted).BorderForeground(colorSelectedFg)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	// "/" opens the criteria modal; the list's own fuzzy filter stays off.
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	m := appModel{
		ctrl:       ctrl,
		pres:       pres,
		rowsList:   l,
		todayCache: model.DateOf(timeNow().UTC()),
	}
	m.setRows(ctrl.Rows())
	return m
}

func (m *appModel) setRows(rows []model.TaskRow) {
	m.rows = rows
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r, today: m.todayCache}
	}
	m.rowsList.SetItems(items)
}

func (m *appModel) selectedRow() (model.TaskRow, bool) {
	it, ok := m.rowsList.SelectedItem().(rowItem)
	if !ok {
		return model.TaskRow{}, false
	}
	return it.row, true
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rowsList.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case rowsMsg:
		m.setRows(msg.rows)
		return m, nil

	case toastMsg:
		m.toast = msg.message
		m.toastSev = msg.severity
		m.toastSeq++
		seq := m.toastSeq
		d := msg.duration
		if d <= 0 {
			d = toastDefault
		}
		return m, expireToast(seq, d)

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case archiveDoneMsg:
		m.archiving = false
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeFilter:
			return m.updateFilter(msg)
		case modeConfirmArchive:
			return m.updateConfirmArchive(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.rowsList, cmd = m.rowsList.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "a":
		m.mode = modeAdd
		m.addInput = newAddModel(m.ctrl)
		return m, m.addInput.input.Focus()

	case "/":
		m.mode = modeFilter
		m.filterBox = newFilterModel(m.ctrl, m.todayCache)
		return m, m.filterBox.focusCmd()

	case "c":
		m.ctrl.ClearFilter()
		return m, nil

	case "s":
		if row, ok := m.selectedRow(); ok {
			next := nextStatus(row.Status)
			m.ctrl.EditRow(row.ID, model.RowPatch{Status: &next})
			m.setRows(m.ctrl.Rows())
		}
		return m, nil

	case "x":
		if row, ok := m.selectedRow(); ok {
			m.ctrl.RemoveRow(row.ID)
		}
		return m, nil

	case "A":
		if m.archiving {
			return m, nil
		}
		m.mode = modeConfirmArchive
		return m, nil
	}

	var cmd tea.Cmd
	m.rowsList, cmd = m.rowsList.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmArchive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.mode = modeList
		m.archiving = true
		ctrl := m.ctrl
		return m, func() tea.Msg {
			// The controller reports progress through the presenter.
			_, _ = ctrl.ArchiveConfirmed(context.Background())
			return archiveDoneMsg{}
		}
	case "n", "esc", "ctrl+g":
		m.mode = modeList
		return m, nil
	}
	return m, nil
}

func (m appModel) View() string {
	header := m.headerView()
	var body string
	switch m.mode {
	case modeAdd:
		body = m.addInput.view(m.width)
	case modeFilter:
		body = m.filterBox.view(m.width)
	case modeConfirmArchive:
		body = renderConfirmModal(m.width,
			"Archive completed tasks",
			"Completed tasks older than the cutoff move to history.\nThe list reloads afterwards.",
			"y: archive   n/esc: cancel")
	default:
		body = m.rowsList.View()
	}
	return strings.Join([]string{header, body, m.footerView()}, "\n")
}

func (m appModel) headerView() string {
	title := fmt.Sprintf("Sprintboard · %d task(s)", len(m.rows))
	if n := m.ctrl.ActiveFilterCount(); n > 0 {
		title += fmt.Sprintf("  ·  Filters (%d)", n)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorTitle).Render(title)
}

func (m appModel) footerView() string {
	if m.toast != "" {
		return toastStyle(m.toastSev).Render(m.toast)
	}
	return styleMuted().Render("a: add   /: filter   c: clear filter   s: status   x: remove   A: archive   q: quit")
}
