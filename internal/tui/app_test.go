package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sprintboard-cli/internal/controller"
	"sprintboard-cli/internal/model"
)

// memPersister keeps the row list in memory so the app model can be driven
// without touching disk.
type memPersister struct {
	mu         sync.Mutex
	rows       []model.TaskRow
	saves      int
	archiveSum model.ArchiveSummary
}

func (m *memPersister) Load(ctx context.Context) ([]model.TaskRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneRows(m.rows), nil
}

func (m *memPersister) Save(ctx context.Context, rows []model.TaskRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = model.CloneRows(rows)
	m.saves++
	return nil
}

func (m *memPersister) ArchiveCompleted(ctx context.Context) (model.ArchiveSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keep []model.TaskRow
	archived := 0
	for _, r := range m.rows {
		if r.Status == model.StatusCompleted {
			archived++
			continue
		}
		keep = append(keep, r)
	}
	m.rows = keep
	sum := m.archiveSum
	sum.ArchivedCount = archived
	return sum, nil
}

func newTestApp(t *testing.T, rows []model.TaskRow) (appModel, *controller.Controller, *memPersister) {
	t.Helper()
	mp := &memPersister{rows: rows}
	ctrl := controller.New(controller.Opts{
		Persister: mp,
		Presenter: newPresenter(),
		Quiet:     time.Hour,
	})
	if err := ctrl.Activate(context.Background(), true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	t.Cleanup(ctrl.Deactivate)
	m := newAppModel(ctrl, newPresenter())
	m.width = 80
	m.height = 24
	m.rowsList.SetSize(80, 21)
	return m, ctrl, mp
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		mAny, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = mAny.(appModel)
	}
	return m
}

func seedRows() []model.TaskRow {
	done := model.Date("2026-08-29")
	ida := "ida"
	return []model.TaskRow{
		{ID: "row-a", TaskName: "alpha", Status: model.StatusCompleted, CompletedDate: &done},
		{ID: "row-b", TaskName: "bravo", Status: model.StatusInProgress, AssignedTo: &ida},
	}
}

func TestAddModal_TypesEnterAddsEmptyEnterCloses(t *testing.T) {
	m, _, mp := newTestApp(t, nil)

	mAny, _ := m.Update(keyRunes("a"))
	m = mAny.(appModel)
	if m.mode != modeAdd {
		t.Fatalf("'a' did not open the add modal")
	}

	m = typeString(t, m, "write release notes")
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.mode != modeAdd {
		t.Fatalf("add modal must stay open for the next name")
	}
	if len(m.rows) != 1 || m.rows[0].TaskName != "write release notes" {
		t.Fatalf("rows after add: %+v", m.rows)
	}
	if mp.saves != 1 {
		t.Fatalf("each add must persist eagerly; saves=%d", mp.saves)
	}

	// Empty enter finishes the session.
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.mode != modeList {
		t.Fatalf("empty enter did not close the add modal")
	}
}

func TestStatusKeyCyclesAndStampsCompletedDate(t *testing.T) {
	m, ctrl, _ := newTestApp(t, []model.TaskRow{
		{ID: "row-a", TaskName: "alpha", Status: model.StatusInProgress},
	})

	// in-progress -> completed per the cycle; on-hold wraps back around.
	if nextStatus(model.StatusInProgress) != model.StatusCompleted {
		t.Fatalf("cycle order changed: in-progress should advance to completed")
	}
	if nextStatus(model.StatusOnHold) != model.StatusNotStarted {
		t.Fatalf("cycle order changed: on-hold should wrap to not-started")
	}

	mAny, _ := m.Update(keyRunes("s"))
	m = mAny.(appModel)

	rows := ctrl.Rows()
	if rows[0].Status != model.StatusCompleted {
		t.Fatalf("status after 's': %s", rows[0].Status)
	}
	if rows[0].CompletedDate == nil {
		t.Fatalf("completed date not stamped on status cycle")
	}
	if m.rows[0].Status != model.StatusCompleted {
		t.Fatalf("view not refreshed after status cycle")
	}
}

func TestRemoveKeyDropsSelectedRow(t *testing.T) {
	m, ctrl, _ := newTestApp(t, seedRows())

	mAny, _ := m.Update(keyRunes("x"))
	_ = mAny.(appModel)

	rows := ctrl.CanonicalRows()
	if len(rows) != 1 || rows[0].ID != "row-b" {
		t.Fatalf("canonical rows after remove: %+v", rows)
	}
}

func TestFilterModal_AppliesAndClears(t *testing.T) {
	m, ctrl, _ := newTestApp(t, seedRows())

	mAny, _ := m.Update(keyRunes("/"))
	m = mAny.(appModel)
	if m.mode != modeFilter {
		t.Fatalf("'/' did not open the filter modal")
	}

	m = typeString(t, m, "bravo")
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)
	if m.mode != modeList {
		t.Fatalf("enter did not close the filter modal")
	}
	if !ctrl.Filtered() {
		t.Fatalf("filter not applied")
	}
	got := ctrl.Rows()
	if len(got) != 1 || got[0].ID != "row-b" {
		t.Fatalf("filtered rows: %+v", got)
	}

	mAny, _ = m.Update(keyRunes("c"))
	_ = mAny.(appModel)
	if ctrl.Filtered() {
		t.Fatalf("'c' did not clear the filter")
	}
}

func TestFilterModal_BadDateShowsErrorAndStaysOpen(t *testing.T) {
	m, ctrl, _ := newTestApp(t, seedRows())

	mAny, _ := m.Update(keyRunes("/"))
	m = mAny.(appModel)

	// Tab to the "Due from" field and type garbage.
	for i := 0; i < filterFieldDueFrom; i++ {
		mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = mAny.(appModel)
	}
	m = typeString(t, m, "not a date")
	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mAny.(appModel)

	if m.mode != modeFilter {
		t.Fatalf("modal closed despite the parse error")
	}
	if m.filterBox.errText == "" {
		t.Fatalf("parse error not surfaced")
	}
	if ctrl.Filtered() {
		t.Fatalf("bad criteria applied")
	}
}

func TestArchiveConfirm_EscCancelsYRuns(t *testing.T) {
	m, ctrl, mp := newTestApp(t, seedRows())
	mp.archiveSum = model.ArchiveSummary{Today: model.Date("2026-08-31")}

	mAny, _ := m.Update(keyRunes("A"))
	m = mAny.(appModel)
	if m.mode != modeConfirmArchive {
		t.Fatalf("'A' did not open the confirm modal")
	}

	mAny, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mAny.(appModel)
	if m.mode != modeList {
		t.Fatalf("esc did not cancel")
	}
	if got := len(ctrl.CanonicalRows()); got != 2 {
		t.Fatalf("cancelled archive changed rows: %d", got)
	}

	mAny, _ = m.Update(keyRunes("A"))
	m = mAny.(appModel)
	mAny, cmd := m.Update(keyRunes("y"))
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatalf("confirm must return the archive command")
	}
	if msg := cmd(); msg != (archiveDoneMsg{}) {
		t.Fatalf("archive command returned %T", msg)
	}

	rows := ctrl.CanonicalRows()
	if len(rows) != 1 || rows[0].Status == model.StatusCompleted {
		t.Fatalf("completed row not archived: %+v", rows)
	}
}

func TestHeaderShowsCountAndActiveFilters(t *testing.T) {
	m, ctrl, _ := newTestApp(t, seedRows())

	if !strings.Contains(m.headerView(), "2 task(s)") {
		t.Fatalf("header = %q", m.headerView())
	}

	ctrl.ApplyFilter(model.FilterCriteria{AssignedTo: "ida"})
	m.setRows(ctrl.Rows())
	h := m.headerView()
	if !strings.Contains(h, "1 task(s)") || !strings.Contains(h, "Filters (1)") {
		t.Fatalf("filtered header = %q", h)
	}
}

func TestToastLifecycle(t *testing.T) {
	m, _, _ := newTestApp(t, nil)

	mAny, cmd := m.Update(toastMsg{message: "Saved", severity: controller.SeveritySuccess, duration: time.Minute})
	m = mAny.(appModel)
	if cmd == nil {
		t.Fatalf("toast must schedule its own expiry")
	}
	if !strings.Contains(m.footerView(), "Saved") {
		t.Fatalf("footer = %q", m.footerView())
	}

	// A stale expiry (older seq) must not clear a newer toast.
	mAny, _ = m.Update(toastMsg{message: "Second", severity: controller.SeverityInfo, duration: time.Minute})
	m = mAny.(appModel)
	mAny, _ = m.Update(toastExpireMsg{seq: m.toastSeq - 1})
	m = mAny.(appModel)
	if !strings.Contains(m.footerView(), "Second") {
		t.Fatalf("stale expiry cleared the live toast")
	}

	mAny, _ = m.Update(toastExpireMsg{seq: m.toastSeq})
	m = mAny.(appModel)
	if strings.Contains(m.footerView(), "Second") {
		t.Fatalf("toast not cleared on expiry")
	}
}
