package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"sprintboard-cli/internal/model"
)

func strPtr(s string) *string { return &s }
func datePtr(d model.Date) *model.Date {
	return &d
}

func sampleRows() []model.TaskRow {
	return []model.TaskRow{
		{
			ID: "row-a", TaskName: "Write report", Status: model.StatusCompleted,
			AssignedTo: strPtr("ida"), CompletedDate: datePtr("2026-08-29"),
		},
		{
			ID: "row-b", TaskName: "Review PRs", Status: model.StatusInProgress,
			AssignedTo: strPtr("omar"), Deadline: datePtr("2026-09-01"),
		},
		{
			ID: "row-c", TaskName: "write tests", Status: model.StatusNotStarted,
			Deadline: datePtr("2026-09-10"),
		},
		{
			ID: "row-d", TaskName: "Plan sprint", Status: model.StatusOnHold,
			AssignedTo: strPtr("ida"),
		},
	}
}

func ids(rows []model.TaskRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestApply_EmptyCriteriaIsIdentity(t *testing.T) {
	rows := sampleRows()
	got := Apply(rows, model.FilterCriteria{})
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Fatalf("empty criteria must return all rows (-want +got):\n%s", diff)
	}

	// Explicit "all" visibility is still the identity.
	got = Apply(rows, model.FilterCriteria{Visibility: model.VisibilityAll})
	if diff := cmp.Diff(rows, got); diff != "" {
		t.Fatalf("visibility=all must return all rows (-want +got):\n%s", diff)
	}
}

func TestApply_ReturnsCopies(t *testing.T) {
	rows := sampleRows()
	got := Apply(rows, model.FilterCriteria{})
	*got[0].AssignedTo = "changed"
	if *rows[0].AssignedTo != "ida" {
		t.Fatalf("Apply must deep-copy: mutation reached the input")
	}
}

func TestApply_NameContains(t *testing.T) {
	rows := sampleRows()
	got := Apply(rows, model.FilterCriteria{TaskNameContains: "WRITE"})
	if diff := cmp.Diff([]string{"row-a", "row-c"}, ids(got)); diff != "" {
		t.Fatalf("case-insensitive substring match (-want +got):\n%s", diff)
	}

	// A blank-named row never matches a non-empty needle.
	rows = append(rows, model.TaskRow{ID: "row-e", TaskName: "   "})
	got = Apply(rows, model.FilterCriteria{TaskNameContains: "e"})
	for _, r := range got {
		if r.ID == "row-e" {
			t.Fatalf("blank-named row must be excluded")
		}
	}
}

func TestApply_Assignee(t *testing.T) {
	got := Apply(sampleRows(), model.FilterCriteria{AssignedTo: "ida"})
	if diff := cmp.Diff([]string{"row-a", "row-d"}, ids(got)); diff != "" {
		t.Fatalf("assignee exact match (-want +got):\n%s", diff)
	}
	// Unassigned rows never match a non-empty criterion.
	for _, r := range got {
		if r.AssignedTo == nil {
			t.Fatalf("unassigned row matched assignee filter")
		}
	}
}

func TestApply_Visibility(t *testing.T) {
	rows := sampleRows()

	got := Apply(rows, model.FilterCriteria{Visibility: model.VisibilityHideCompleted})
	if diff := cmp.Diff([]string{"row-b", "row-c", "row-d"}, ids(got)); diff != "" {
		t.Fatalf("hide-completed (-want +got):\n%s", diff)
	}

	got = Apply(rows, model.FilterCriteria{Visibility: model.VisibilityOnlyCompleted})
	if diff := cmp.Diff([]string{"row-a"}, ids(got)); diff != "" {
		t.Fatalf("only-completed (-want +got):\n%s", diff)
	}
}

func TestApply_DateRanges(t *testing.T) {
	rows := sampleRows()

	// Any bound set => rows without the date are excluded.
	got := Apply(rows, model.FilterCriteria{DeadlineRange: model.DateRange{From: "2026-09-01"}})
	if diff := cmp.Diff([]string{"row-b", "row-c"}, ids(got)); diff != "" {
		t.Fatalf("deadline lower bound (-want +got):\n%s", diff)
	}

	got = Apply(rows, model.FilterCriteria{DeadlineRange: model.DateRange{From: "2026-09-01", To: "2026-09-05"}})
	if diff := cmp.Diff([]string{"row-b"}, ids(got)); diff != "" {
		t.Fatalf("deadline bounded range (-want +got):\n%s", diff)
	}

	got = Apply(rows, model.FilterCriteria{CompletedRange: model.DateRange{To: "2026-08-31"}})
	if diff := cmp.Diff([]string{"row-a"}, ids(got)); diff != "" {
		t.Fatalf("completed upper bound (-want +got):\n%s", diff)
	}
}

func TestApply_CriteriaCombineWithAND(t *testing.T) {
	got := Apply(sampleRows(), model.FilterCriteria{
		TaskNameContains: "r",
		AssignedTo:       "ida",
		Visibility:       model.VisibilityHideCompleted,
	})
	if diff := cmp.Diff([]string{"row-d"}, ids(got)); diff != "" {
		t.Fatalf("AND combination (-want +got):\n%s", diff)
	}
}

func TestApply_Idempotent(t *testing.T) {
	crit := model.FilterCriteria{Visibility: model.VisibilityHideCompleted, TaskNameContains: "e"}
	first := Apply(sampleRows(), crit)
	second := Apply(sampleRows(), crit)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated Apply with identical input diverged:\n%s", diff)
	}
}

func TestDistinctAssignees(t *testing.T) {
	rows := append(sampleRows(), model.TaskRow{ID: "row-e", AssignedTo: strPtr("  ")})
	got := DistinctAssignees(rows)
	if diff := cmp.Diff([]string{"ida", "omar"}, got); diff != "" {
		t.Fatalf("distinct assignees (-want +got):\n%s", diff)
	}
}

func TestActiveCriteriaCount(t *testing.T) {
	cases := []struct {
		name string
		crit model.FilterCriteria
		want int
	}{
		{"empty", model.FilterCriteria{}, 0},
		{"visibility all is inactive", model.FilterCriteria{Visibility: model.VisibilityAll}, 0},
		{"one", model.FilterCriteria{TaskNameContains: "x"}, 1},
		{"range counts once", model.FilterCriteria{DeadlineRange: model.DateRange{From: "2026-01-01", To: "2026-02-01"}}, 1},
		{
			"all six",
			model.FilterCriteria{
				TaskNameContains: "x",
				AssignedTo:       "ida",
				Status:           model.StatusOnHold,
				Visibility:       model.VisibilityHideCompleted,
				DeadlineRange:    model.DateRange{From: "2026-01-01"},
				CompletedRange:   model.DateRange{To: "2026-01-01"},
			},
			6,
		},
	}
	for _, tc := range cases {
		if got := ActiveCriteriaCount(tc.crit); got != tc.want {
			t.Fatalf("%s: ActiveCriteriaCount = %d; want %d", tc.name, got, tc.want)
		}
	}
}
