package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"sprintboard-cli/internal/model"
)

// JSONFile stores the row list as a single JSON document, written atomically
// so a crashed save never leaves a truncated file. Archived rows move to a
// sibling history file.
type JSONFile struct {
	Path string

	// HistoryPath defaults to "<Path minus .json>-history.json".
	HistoryPath string

	// CutoffDays defaults to DefaultCutoffDays.
	CutoffDays int

	// Now is the clock used for archive cutoffs and history stamps.
	Now func() time.Time
}

type jsonFileDoc struct {
	Version int             `json:"version"`
	Rows    []model.TaskRow `json:"rows"`
}

type jsonHistoryDoc struct {
	Version int            `json:"version"`
	Entries []HistoryEntry `json:"entries"`
}

func (p *JSONFile) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *JSONFile) historyPath() string {
	if strings.TrimSpace(p.HistoryPath) != "" {
		return p.HistoryPath
	}
	base := strings.TrimSuffix(p.Path, filepath.Ext(p.Path))
	return base + "-history.json"
}

func (p *JSONFile) Load(ctx context.Context) ([]model.TaskRow, error) {
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	var doc jsonFileDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	return doc.Rows, nil
}

// Save replaces the whole list. Overwrite semantics make racing saves safe:
// the last writer wins with a complete snapshot.
func (p *JSONFile) Save(ctx context.Context, rows []model.TaskRow) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	doc := jsonFileDoc{Version: 1, Rows: rows}
	if doc.Rows == nil {
		doc.Rows = []model.TaskRow{}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	if err := atomic.WriteFile(p.Path, bytes.NewReader(append(b, '\n'))); err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	return nil
}

func (p *JSONFile) ArchiveCompleted(ctx context.Context) (model.ArchiveSummary, error) {
	rows, err := p.Load(ctx)
	if err != nil {
		return model.ArchiveSummary{}, err
	}

	now := p.now().UTC()
	today := model.DateOf(now)
	cutoff := cutoffFor(today, p.CutoffDays)

	keep, archived := splitArchive(rows, cutoff)
	if len(archived) > 0 {
		if err := p.appendHistory(archived, now); err != nil {
			return model.ArchiveSummary{}, err
		}
		if err := p.Save(ctx, keep); err != nil {
			return model.ArchiveSummary{}, err
		}
	}
	return summarize(rows, len(archived), today, cutoff), nil
}

func (p *JSONFile) appendHistory(archived []model.TaskRow, now time.Time) error {
	path := p.historyPath()

	var doc jsonHistoryDoc
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		doc = jsonHistoryDoc{Version: 1}
	case err != nil:
		return fmt.Errorf("archive rows: %w", err)
	default:
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("archive rows: %w", err)
		}
	}

	for _, r := range archived {
		doc.Entries = append(doc.Entries, HistoryEntry{TaskRow: r, ArchivedOn: now})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("archive rows: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(append(out, '\n'))); err != nil {
		return fmt.Errorf("archive rows: %w", err)
	}
	return nil
}
