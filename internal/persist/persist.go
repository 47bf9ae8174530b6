// Package persist provides local implementations of the persistence
// collaborator: whole-list load/save plus the archive operation that moves
// stale completed rows into a history store.
package persist

import (
	"time"

	"sprintboard-cli/internal/model"
)

// DefaultCutoffDays is how many days a completed row must be old before the
// archive operation moves it to history.
const DefaultCutoffDays = 1

// HistoryEntry is an archived row plus its archival metadata.
type HistoryEntry struct {
	model.TaskRow
	ArchivedOn time.Time `json:"archivedOn"`
}

// splitArchive partitions rows into the ones to keep and the ones to archive:
// completed rows whose completed date is on or before the cutoff.
func splitArchive(rows []model.TaskRow, cutoff model.Date) (keep, archived []model.TaskRow) {
	for _, r := range rows {
		if r.Status == model.StatusCompleted && r.CompletedDate != nil && r.CompletedDate.Compare(cutoff) <= 0 {
			archived = append(archived, r)
			continue
		}
		keep = append(keep, r)
	}
	return keep, archived
}

// summarize describes an archive run over the pre-archive row list.
func summarize(before []model.TaskRow, archived int, today, cutoff model.Date) model.ArchiveSummary {
	completed := 0
	for _, r := range before {
		if r.Status == model.StatusCompleted {
			completed++
		}
	}
	return model.ArchiveSummary{
		Today:          today,
		Cutoff:         cutoff,
		TotalTasks:     len(before),
		CompletedTasks: completed,
		ArchivedCount:  archived,
	}
}

func cutoffFor(today model.Date, cutoffDays int) model.Date {
	if cutoffDays <= 0 {
		cutoffDays = DefaultCutoffDays
	}
	t, err := today.Time()
	if err != nil {
		return today
	}
	return model.DateOf(t.AddDate(0, 0, -cutoffDays))
}
