package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrJobNotFound is returned by GetJob for an unknown id.
var ErrJobNotFound = errors.New("job not found")

// Job is one recorded generation.
type Job struct {
	Seq           int64     `json:"seq"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ParamsHash    string    `json:"params_hash"`
	Params        string    `json:"params"` // canonical JSON
	LoopCount     int       `json:"loop_count"`
	Motion        string    `json:"motion"`
	Compatibility bool      `json:"compatibility"`
	Output        string    `json:"output"`
	ProgramHash   string    `json:"program_hash"`
	SizeBytes     int64     `json:"size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
}

// WriteJob inserts a job record and returns its seq.
// Uses ON CONFLICT(id) DO NOTHING; writing the same id twice returns the
// existing seq.
func (s *Store) WriteJob(ctx context.Context, job Job) (int64, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs
		(id, name, params_hash, params, loop_count, motion, compatibility, output, program_hash, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		job.ID,
		job.Name,
		job.ParamsHash,
		job.Params,
		job.LoopCount,
		job.Motion,
		job.Compatibility,
		job.Output,
		job.ProgramHash,
		job.SizeBytes,
		job.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("write job: %w", err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM jobs WHERE id = ?`, job.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write job: read seq: %w", err)
	}
	return seq, nil
}

// GetJob returns the job with the given id.
func (s *Store) GetJob(ctx context.Context, id string) (Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = ?
	`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job, err
}

// ListJobs returns the most recent jobs, newest first. A limit of zero or
// less returns every job.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryJobs(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
}

// JobsByParams returns every job generated from the given parameter digest,
// oldest first.
func (s *Store) JobsByParams(ctx context.Context, paramsHash string) ([]Job, error) {
	return s.queryJobs(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE params_hash = ?
		ORDER BY seq ASC
	`, paramsHash)
}

const jobColumns = `seq, id, name, params_hash, params, loop_count, motion, compatibility, output, program_hash, size_bytes, created_at`

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (Job, error) {
	var (
		job       Job
		createdAt string
	)
	err := row.Scan(
		&job.Seq,
		&job.ID,
		&job.Name,
		&job.ParamsHash,
		&job.Params,
		&job.LoopCount,
		&job.Motion,
		&job.Compatibility,
		&job.Output,
		&job.ProgramHash,
		&job.SizeBytes,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, err
		}
		return Job{}, fmt.Errorf("scan job: %w", err)
	}

	job.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Job{}, fmt.Errorf("scan job %s: created_at: %w", job.ID, err)
	}
	return job, nil
}
