package rowstore

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sprintboard-cli/internal/model"
)

func strPtr(s string) *string { return &s }

func fixedClock(day string) func() time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestInitialize_OnlyOnce(t *testing.T) {
	s := New()
	s.Initialize([]model.TaskRow{{ID: "row-a", TaskName: "alpha"}})
	s.Initialize([]model.TaskRow{{ID: "row-b", TaskName: "bravo"}})

	got := s.All()
	if len(got) != 1 || got[0].ID != "row-a" {
		t.Fatalf("second Initialize must be a no-op; got %+v", got)
	}

	s.Reset([]model.TaskRow{{ID: "row-b", TaskName: "bravo"}})
	got = s.All()
	if len(got) != 1 || got[0].ID != "row-b" {
		t.Fatalf("Reset must replace wholesale; got %+v", got)
	}
}

func TestAll_ReturnsDisposableCopy(t *testing.T) {
	s := New()
	s.Initialize([]model.TaskRow{{ID: "row-a", TaskName: "alpha", AssignedTo: strPtr("ida")}})

	view := s.All()
	view[0].TaskName = "changed"
	*view[0].AssignedTo = "changed"

	canon, _ := s.Find("row-a")
	if canon.TaskName != "alpha" || *canon.AssignedTo != "ida" {
		t.Fatalf("view mutation reached the canonical row: %+v", canon)
	}
}

func TestUpsert_MergesFieldsAndIgnoresUnknownIDs(t *testing.T) {
	s := New()
	s.Now = fixedClock("2026-08-31")
	s.Initialize([]model.TaskRow{{ID: "row-a", TaskName: "alpha", Status: model.StatusNotStarted}})

	if ok := s.Upsert("row-nope", model.RowPatch{TaskName: strPtr("ghost")}); ok {
		t.Fatalf("upsert of unknown id must be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("upsert must never create rows; len=%d", s.Len())
	}

	st := model.StatusCompleted
	s.Upsert("row-a", model.RowPatch{Status: &st})
	row, _ := s.Find("row-a")
	if row.CompletedDate == nil || *row.CompletedDate != "2026-08-31" {
		t.Fatalf("status mutation must stamp completed date; got %+v", row)
	}

	// Last write wins per field.
	s.Upsert("row-a", model.RowPatch{TaskName: strPtr("first")})
	s.Upsert("row-a", model.RowPatch{TaskName: strPtr("second")})
	row, _ = s.Find("row-a")
	if row.TaskName != "second" {
		t.Fatalf("expected last write to win; got %q", row.TaskName)
	}
	if row.Status != model.StatusCompleted {
		t.Fatalf("a name-only patch must not touch status; got %s", row.Status)
	}
}

func TestAppend_AssignsFreshIDsAndDefaults(t *testing.T) {
	s := New()
	s.Initialize(nil)

	x := s.Append(model.TaskRow{TaskName: "X"})
	y := s.Append(model.TaskRow{TaskName: "Y"})

	if x.ID == "" || y.ID == "" || x.ID == y.ID {
		t.Fatalf("expected distinct fresh ids; got %q and %q", x.ID, y.ID)
	}
	if !strings.HasPrefix(x.ID, "row-") {
		t.Fatalf("unexpected id shape: %q", x.ID)
	}
	if x.Status != model.StatusNotStarted || y.Status != model.StatusNotStarted {
		t.Fatalf("new rows default to not-started")
	}

	got := s.All()
	if diff := cmp.Diff([]string{x.ID, y.ID}, []string{got[0].ID, got[1].ID}); diff != "" {
		t.Fatalf("insertion order not preserved (-want +got):\n%s", diff)
	}

	// Caller-supplied ids are kept.
	z := s.Append(model.TaskRow{ID: "row-z", TaskName: "Z"})
	if z.ID != "row-z" {
		t.Fatalf("caller-supplied id replaced: %q", z.ID)
	}
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	s := New()
	s.Initialize([]model.TaskRow{{ID: "row-a", TaskName: "alpha"}, {ID: "row-b", TaskName: "bravo"}})

	if ok := s.Remove("row-nope"); ok {
		t.Fatalf("removing unknown id must report false")
	}
	if !s.Remove("row-a") {
		t.Fatalf("removing existing id must report true")
	}
	if s.Len() != 1 {
		t.Fatalf("len after remove = %d", s.Len())
	}
	if _, ok := s.Find("row-a"); ok {
		t.Fatalf("removed row still present")
	}
}
