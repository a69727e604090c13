package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Compile-time check that SQLiteStore implements ScheduleRepository.
var _ ScheduleRepository = (*SQLiteStore)(nil)

// SQLiteStore persists schedule entries in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS schedules (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	run_time     TEXT NOT NULL,
	days_of_week TEXT NOT NULL,
	last_run     TEXT,
	is_active    INTEGER NOT NULL DEFAULT 1,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
`

// OpenSQLite opens (creating if needed) the schedule database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns all schedule entries ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context) ([]ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, run_time, days_of_week, last_run, is_active, created_at, updated_at
		FROM schedules ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Get returns a single entry by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*ScheduleEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, run_time, days_of_week, last_run, is_active, created_at, updated_at
		FROM schedules WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return entry, err
}

// Create inserts a new entry, assigning an ID and timestamps.
func (s *SQLiteStore) Create(ctx context.Context, entry *ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	days, err := json.Marshal(entry.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encoding days_of_week: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schedules (id, name, run_time, days_of_week, last_run, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Name, entry.RunTime, string(days), encodeTime(entry.LastRun),
		boolToInt(entry.IsActive), now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting schedule %s: %w", entry.ID, err)
	}
	return nil
}

// Update rewrites the operator-editable fields of an entry.
func (s *SQLiteStore) Update(ctx context.Context, entry *ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	days, err := json.Marshal(entry.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("encoding days_of_week: %w", err)
	}

	entry.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET name = ?, run_time = ?, days_of_week = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		entry.Name, entry.RunTime, string(days), boolToInt(entry.IsActive),
		entry.UpdatedAt.Format(time.RFC3339Nano), entry.ID)
	if err != nil {
		return fmt.Errorf("updating schedule %s: %w", entry.ID, err)
	}
	return requireRow(result)
}

// Delete removes an entry.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule %s: %w", id, err)
	}
	return requireRow(result)
}

// UpdateLastRun records a successful dispatch. This is the only field the
// core pipeline mutates.
func (s *SQLiteStore) UpdateLastRun(ctx context.Context, id string, lastRun time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET last_run = ?, updated_at = ? WHERE id = ?`,
		lastRun.Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating last_run for %s: %w", id, err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*ScheduleEntry, error) {
	var (
		entry     ScheduleEntry
		days      string
		lastRun   sql.NullString
		isActive  int
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&entry.ID, &entry.Name, &entry.RunTime, &days, &lastRun, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(days), &entry.DaysOfWeek); err != nil {
		return nil, fmt.Errorf("decoding days_of_week for %s: %w", entry.ID, err)
	}

	if lastRun.Valid {
		t, err := time.Parse(time.RFC3339, lastRun.String)
		if err != nil {
			return nil, fmt.Errorf("decoding last_run for %s: %w", entry.ID, err)
		}
		entry.LastRun = &t
	}

	entry.IsActive = isActive != 0
	entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &entry, nil
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
