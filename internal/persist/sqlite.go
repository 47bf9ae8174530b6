package persist

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sprintboard-cli/internal/model"
)

// SQLite stores the row list in a local sqlite database with a separate
// task_history table for archived rows.
type SQLite struct {
	Path string

	// CutoffDays defaults to DefaultCutoffDays.
	CutoffDays int

	// Now is the clock used for archive cutoffs and history stamps.
	Now func() time.Time
}

func (p *SQLite) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *SQLite) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", p.Path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness for concurrent local processes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pr := range pragmas {
		if _, err := db.ExecContext(ctx, pr); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := p.migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (p *SQLite) migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			task_name TEXT NOT NULL,
			assigned_to TEXT,
			status TEXT NOT NULL,
			deadline TEXT,
			completed_date TEXT,
			last_alerted_unixms INTEGER,
			position INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);`,
		`CREATE TABLE IF NOT EXISTS task_history (
			id TEXT NOT NULL,
			task_name TEXT NOT NULL,
			assigned_to TEXT,
			status TEXT NOT NULL,
			deadline TEXT,
			completed_date TEXT,
			archived_on_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (p *SQLite) Load(ctx context.Context) ([]model.TaskRow, error) {
	db, err := p.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, task_name, assigned_to, status, deadline, completed_date, last_alerted_unixms
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	defer rows.Close()

	var out []model.TaskRow
	for rows.Next() {
		var (
			r           model.TaskRow
			assignedTo  sql.NullString
			deadline    sql.NullString
			completed   sql.NullString
			lastAlerted sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.TaskName, &assignedTo, &r.Status, &deadline, &completed, &lastAlerted); err != nil {
			return nil, fmt.Errorf("load rows: %w", err)
		}
		if assignedTo.Valid {
			v := assignedTo.String
			r.AssignedTo = &v
		}
		if deadline.Valid && deadline.String != "" {
			d := model.Date(deadline.String)
			r.Deadline = &d
		}
		if completed.Valid && completed.String != "" {
			d := model.Date(completed.String)
			r.CompletedDate = &d
		}
		if lastAlerted.Valid {
			t := time.UnixMilli(lastAlerted.Int64).UTC()
			r.LastAlerted = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	return out, nil
}

// Save replaces the whole list in one transaction (delete + insert), so a
// racing save simply becomes two sequential overwrites.
func (p *SQLite) Save(ctx context.Context, rows []model.TaskRow) error {
	db, err := p.open(ctx)
	if err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	for i, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, task_name, assigned_to, status, deadline, completed_date, last_alerted_unixms, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.TaskName, nullStr(r.AssignedTo), string(r.Status),
			nullDate(r.Deadline), nullDate(r.CompletedDate), nullUnixMilli(r.LastAlerted), i,
		); err != nil {
			return fmt.Errorf("save rows: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	return nil
}

func (p *SQLite) ArchiveCompleted(ctx context.Context) (model.ArchiveSummary, error) {
	db, err := p.open(ctx)
	if err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	defer db.Close()

	now := p.now().UTC()
	today := model.DateOf(now)
	cutoff := cutoffFor(today, p.CutoffDays)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	defer tx.Rollback()

	var total, completed int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = ?`, string(model.StatusCompleted),
	).Scan(&completed); err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO task_history (id, task_name, assigned_to, status, deadline, completed_date, archived_on_unixms)
		SELECT id, task_name, assigned_to, status, deadline, completed_date, ?
		FROM tasks
		WHERE status = ? AND completed_date IS NOT NULL AND completed_date <= ?`,
		now.UnixMilli(), string(model.StatusCompleted), string(cutoff),
	)
	if err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	archived, err := res.RowsAffected()
	if err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE status = ? AND completed_date IS NOT NULL AND completed_date <= ?`,
		string(model.StatusCompleted), string(cutoff),
	); err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.ArchiveSummary{}, fmt.Errorf("archive rows: %w", err)
	}

	return model.ArchiveSummary{
		Today:          today,
		Cutoff:         cutoff,
		TotalTasks:     total,
		CompletedTasks: completed,
		ArchivedCount:  int(archived),
	}, nil
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullDate(d *model.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return string(*d)
}

func nullUnixMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
