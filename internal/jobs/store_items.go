package jobs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"silhouette/internal/services"
)

// Put inserts or fully replaces the job with the same ID. The source asset and
// creation time are fixed by the first write; later writes only update state.
// On success job.Seq and job.UpdatedAt reflect the stored row.
func (s *Store) Put(ctx context.Context, job *Job) error {
	if err := job.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, storeStage, "put", "", err)
	}
	ctx = ensureContext(ctx)

	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	updatedAt := now

	var seq int64
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(
			ctx,
			`INSERT INTO jobs (
                id, source_name, source_size, source_data, status, progress,
                cleaned_data, vector_data, failure_reason, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(id) DO UPDATE SET
                status = excluded.status,
                progress = excluded.progress,
                cleaned_data = excluded.cleaned_data,
                vector_data = excluded.vector_data,
                failure_reason = excluded.failure_reason,
                updated_at = excluded.updated_at
            RETURNING seq`,
			job.ID,
			job.Source.Name,
			job.Source.Size,
			nullableBlob(job.Source.Data),
			string(job.Status),
			job.Progress,
			nullableBlob(job.Cleaned),
			nullableBlob(job.Vector),
			nullableString(job.FailureReason),
			formatTime(job.CreatedAt),
			formatTime(updatedAt),
		).Scan(&seq)
	})
	if err != nil {
		return unavailable("put", err)
	}
	job.Seq = seq
	job.UpdatedAt = updatedAt
	return nil
}

// Get returns the job with id, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	ctx = ensureContext(ctx)
	var job *Job
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
		var scanErr error
		job, scanErr = scanJob(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	return job, nil
}

// GetAll returns every stored job in creation order.
// An empty store yields an empty, non-nil slice.
func (s *Store) GetAll(ctx context.Context) ([]Job, error) {
	return s.query(ctx, "get all", `SELECT `+jobColumns+` FROM jobs ORDER BY seq`)
}

// ListByStatus returns jobs in status ordered by creation sequence.
func (s *Store) ListByStatus(ctx context.Context, status Status) ([]Job, error) {
	return s.query(ctx, "list", `SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY seq`, string(status))
}

func (s *Store) query(ctx context.Context, operation, query string, args ...any) ([]Job, error) {
	ctx = ensureContext(ctx)
	var out []Job
	err := retryOnBusy(ctx, func() error {
		out = make([]Job, 0)
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			job, err := scanJob(rows)
			if err != nil {
				return err
			}
			out = append(out, *job)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, unavailable(operation, err)
	}
	return out, nil
}

// Clear removes every job. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, unavailable("clear", err)
	}
	return res.RowsAffected()
}

// ResetInterrupted returns jobs left in processing by an earlier run to
// pending and discards their partial payloads.
func (s *Store) ResetInterrupted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs
         SET status = ?, progress = 0, cleaned_data = NULL, vector_data = NULL,
             failure_reason = NULL, updated_at = ?
         WHERE status = ?`,
		string(StatusPending),
		formatTime(time.Now()),
		string(StatusProcessing),
	)
	if err != nil {
		return 0, unavailable("reset interrupted", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	err := retryOnBusy(ctx, func() error {
		stats = Stats{}
		rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if err := rows.Scan(&status, &count); err != nil {
				return err
			}
			stats.Add(Status(status), count)
		}
		return rows.Err()
	})
	if err != nil {
		return Stats{}, unavailable("stats", err)
	}
	return stats, nil
}
