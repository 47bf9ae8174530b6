// Package rowstore holds the authoritative in-memory task row list for one
// open record. It is the single source of truth; any filtered or displayed
// subset is a derived, disposable copy.
package rowstore

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"sprintboard-cli/internal/model"
)

type Store struct {
	rows        []model.TaskRow
	initialized bool

	// Now is the clock used to stamp completed dates. Tests may override it.
	Now func() time.Time
}

func New() *Store {
	return &Store{Now: time.Now}
}

func (s *Store) today() model.Date {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return model.DateOf(now().UTC())
}

// Initialize sets the canonical row set once. Subsequent calls are no-ops
// until an explicit Reset.
func (s *Store) Initialize(rows []model.TaskRow) {
	if s.initialized {
		return
	}
	s.rows = model.CloneRows(rows)
	s.initialized = true
}

func (s *Store) Initialized() bool {
	return s.initialized
}

// All returns the canonical rows in insertion order. The result is a deep
// copy; callers may edit it freely.
func (s *Store) All() []model.TaskRow {
	return model.CloneRows(s.rows)
}

func (s *Store) Len() int {
	return len(s.rows)
}

// Find returns a copy of the row with the given id.
func (s *Store) Find(rowID string) (model.TaskRow, bool) {
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			return s.rows[i].Clone(), true
		}
	}
	return model.TaskRow{}, false
}

// Upsert merges the patch into the row with a matching id. Unknown ids are a
// silent no-op: this is a reconciliation primitive, not a creator.
func (s *Store) Upsert(rowID string, patch model.RowPatch) bool {
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			patch.Apply(&s.rows[i], s.today())
			return true
		}
	}
	return false
}

// Append adds a new row at the end, assigning a fresh id when the caller did
// not supply one. The stamped row is returned.
func (s *Store) Append(row model.TaskRow) model.TaskRow {
	row = row.Clone()
	if strings.TrimSpace(row.ID) == "" {
		row.ID = s.newRowID()
	}
	if row.Status == "" {
		row.Status = model.StatusNotStarted
	}
	row.SetStatus(row.Status, s.today())
	s.rows = append(s.rows, row)
	return row.Clone()
}

// Remove deletes by id. Removing a non-existent id is a no-op.
func (s *Store) Remove(rowID string) bool {
	for i := range s.rows {
		if s.rows[i].ID == rowID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Reset replaces the canonical set wholesale (after a successful persist or
// an external reload).
func (s *Store) Reset(rows []model.TaskRow) {
	s.rows = model.CloneRows(rows)
	s.initialized = true
}

// newRowID returns row-<suffix> where suffix is 8 chars of base32 (lowercase,
// no padding): ~40 bits, plenty for ids unique within one record.
func (s *Store) newRowID() string {
	for {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			// crypto/rand never fails on supported platforms; fall back to a
			// time-derived suffix rather than propagate an error from Append.
			return "row-" + strings.ToLower(time.Now().UTC().Format("20060102150405.000000000"))
		}
		enc := base32.StdEncoding.WithPadding(base32.NoPadding)
		id := "row-" + strings.ToLower(enc.EncodeToString(b[:]))
		if _, exists := s.Find(id); !exists {
			return id
		}
	}
}
