package pipeline

import (
	"context"
	"time"

	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/progress"
	"silhouette/internal/services"
)

// Submit creates and persists one pending job per asset in order. A job whose
// first write fails is returned already failed so the batch still accounts
// for it.
func (o *Orchestrator) Submit(ctx context.Context, assets []Asset) ([]*jobs.Job, error) {
	batch := make([]*jobs.Job, 0, len(assets))
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		job := jobs.New(jobs.NewSourceAsset(asset.Name, asset.Data))
		if err := o.store.Put(ctx, job); err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			o.handleStageFailure(services.WithJobID(ctx, job.ID), StageSubmit, job, err)
		}
		batch = append(batch, job)
	}
	return batch, nil
}

// ProcessBatch submits assets and processes them one at a time. The returned
// snapshot holds one job per asset in submission order; every job is terminal
// unless ctx was cancelled, in which case the context error is returned too.
func (o *Orchestrator) ProcessBatch(ctx context.Context, assets []Asset, sink progress.Sink) ([]jobs.Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	batch, err := o.Submit(ctx, assets)
	if err != nil {
		return snapshot(batch), err
	}
	o.logger.Info("batch submitted",
		logging.String(logging.FieldEventType, "batch_submitted"),
		logging.Int("jobs", len(batch)),
	)
	progress.Emit(ctx, sink, snapshot(batch))
	return o.run(ctx, batch, sink)
}

// Resume returns interrupted jobs to pending and processes every pending job
// in creation order.
func (o *Orchestrator) Resume(ctx context.Context, sink progress.Sink) ([]jobs.Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	reset, err := o.store.ResetInterrupted(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := o.store.ListByStatus(ctx, jobs.StatusPending)
	if err != nil {
		return nil, err
	}
	jobs.SortBySeq(pending)

	batch := make([]*jobs.Job, 0, len(pending))
	for i := range pending {
		batch = append(batch, &pending[i])
	}
	o.logger.Info("resuming pending jobs",
		logging.String(logging.FieldEventType, "batch_resumed"),
		logging.Int64("reset_interrupted", reset),
		logging.Int("jobs", len(batch)),
	)
	progress.Emit(ctx, sink, snapshot(batch))
	return o.run(ctx, batch, sink)
}

func (o *Orchestrator) run(ctx context.Context, batch []*jobs.Job, sink progress.Sink) ([]jobs.Job, error) {
	start := time.Now()
	for _, job := range batch {
		if job.Status.IsTerminal() {
			continue
		}
		if err := ctx.Err(); err != nil {
			o.logBatchInterrupted(batch, err)
			return snapshot(batch), err
		}
		if err := o.processJob(ctx, job); err != nil {
			o.logBatchInterrupted(batch, err)
			return snapshot(batch), err
		}
		progress.Emit(ctx, sink, snapshot(batch))
	}

	final := snapshot(batch)
	stats := jobs.Summarize(final)
	o.logger.Info("batch complete",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("completed", stats.Completed),
		logging.Int("failed", stats.Failed),
		logging.Duration("batch_duration", time.Since(start)),
	)
	return final, nil
}

func (o *Orchestrator) logBatchInterrupted(batch []*jobs.Job, err error) {
	stats := jobs.Summarize(snapshot(batch))
	o.logger.Warn("batch interrupted",
		logging.String(logging.FieldEventType, "batch_interrupted"),
		logging.Int("pending", stats.Pending),
		logging.Int("processing", stats.Processing),
		logging.Error(err),
	)
}

func snapshot(batch []*jobs.Job) []jobs.Job {
	out := make([]jobs.Job, 0, len(batch))
	for _, job := range batch {
		out = append(out, *job)
	}
	return out
}
