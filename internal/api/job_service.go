package api

import (
	"context"
	"io"

	"silhouette/internal/export"
	"silhouette/internal/jobs"
)

// JobReader abstracts the job persistence calls needed for API queries.
type JobReader interface {
	GetAll(ctx context.Context) ([]jobs.Job, error)
	Get(ctx context.Context, id string) (*jobs.Job, error)
	Stats(ctx context.Context) (jobs.Stats, error)
}

// JobService exposes read-only job operations returning API DTOs.
type JobService struct {
	store JobReader
}

// NewJobService constructs a JobService around the provided reader.
func NewJobService(store JobReader) *JobService {
	if store == nil {
		return nil
	}
	return &JobService{store: store}
}

// List returns every job summary ordered by submission sequence.
func (s *JobService) List(ctx context.Context) ([]jobs.Summary, error) {
	if s == nil || s.store == nil {
		return []jobs.Summary{}, nil
	}
	list, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	jobs.SortBySeq(list)
	return jobs.Summaries(list), nil
}

// Stats returns status counts.
func (s *JobService) Stats(ctx context.Context) (jobs.Stats, error) {
	if s == nil || s.store == nil {
		return jobs.Stats{}, nil
	}
	return s.store.Stats(ctx)
}

// Describe fetches a single job. A missing job yields nil, nil.
func (s *JobService) Describe(ctx context.Context, id string) (*jobs.Job, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	return s.store.Get(ctx, id)
}

// WriteArchive streams the export zip for the current store contents.
func (s *JobService) WriteArchive(ctx context.Context, w io.Writer) (int, error) {
	var list []jobs.Job
	if s != nil && s.store != nil {
		var err error
		if list, err = s.store.GetAll(ctx); err != nil {
			return 0, err
		}
	}
	jobs.SortBySeq(list)
	return export.WriteArchive(w, list)
}
