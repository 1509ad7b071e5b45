// Package job records voice generation attempts in a SQLite ledger.
package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the state of a generation job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusRunning, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// Job is one generation attempt that passed validation.
type Job struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	VoiceMode    int       `json:"voice_mode"`
	Status       Status    `json:"status"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows List results. A zero Limit means no limit.
type Filter struct {
	Status Status
	Limit  int
	Offset int
}

const schema = `CREATE TABLE IF NOT EXISTS voice_generation_jobs (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	voice_mode INTEGER NOT NULL,
	status TEXT NOT NULL,
	error_kind TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_voice_generation_jobs_created ON voice_generation_jobs (created_at DESC);`

// Store persists jobs.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Create records a running job and returns it.
func (s *Store) Create(ctx context.Context, filename string, voiceMode int) (*Job, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	j := &Job{
		ID:        uuid.NewString(),
		Filename:  filename,
		VoiceMode: voiceMode,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO voice_generation_jobs (id, filename, voice_mode, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.ID, j.Filename, j.VoiceMode, string(j.Status), now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	return j, nil
}

// Finish moves a job to a terminal status.
func (s *Store) Finish(ctx context.Context, id string, status Status, kind, message string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE voice_generation_jobs SET status = ?, error_kind = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(status), kind, message, s.now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// Get returns the job with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, voice_mode, status, error_kind, error_message, created_at, updated_at
		 FROM voice_generation_jobs WHERE id = ?`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	return j, nil
}

// List returns jobs newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Job, error) {
	query := `SELECT id, filename, voice_mode, status, error_kind, error_message, created_at, updated_at
		FROM voice_generation_jobs`
	var args []any

	if f.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(f.Status))
	}

	query += ` ORDER BY created_at DESC, rowid DESC`

	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	} else if f.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read job: %w", err)
		}
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*Job, error) {
	var (
		j                Job
		status           string
		created, updated int64
	)

	if err := sc.Scan(&j.ID, &j.Filename, &j.VoiceMode, &status, &j.ErrorKind, &j.ErrorMessage, &created, &updated); err != nil {
		return nil, err
	}

	j.Status = Status(status)
	j.CreatedAt = time.UnixMilli(created).UTC()
	j.UpdatedAt = time.UnixMilli(updated).UTC()
	return &j, nil
}
