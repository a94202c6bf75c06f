package pipeline

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"silhouette/internal/background"
	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/raster"
	"silhouette/internal/services"
	"silhouette/internal/vectorize"
)

// processJob runs every stage for job. Stage failures are recorded on the job;
// the returned error is non-nil only when ctx was cancelled.
func (o *Orchestrator) processJob(ctx context.Context, job *jobs.Job) error {
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)
	jobStart := time.Now()

	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_start"),
		logging.String("source_name", job.Source.Name),
		logging.Int64("source_size", job.Source.Size),
	)

	if err := o.commit(ctx, job, func(j *jobs.Job) { j.MarkProcessing(ProgressStarted) }); err != nil {
		return o.stageError(ctx, StageStart, job, err)
	}

	img, err := o.load(ctx, job)
	if err != nil {
		return o.stageError(ctx, StageLoad, job, err)
	}

	masked, err := o.removeBackground(ctx, job, img)
	if err != nil {
		return o.stageError(ctx, StageRemoveBackground, job, err)
	}

	if err := o.vectorize(ctx, job, masked); err != nil {
		return o.stageError(ctx, StageVectorize, job, err)
	}

	logger.Info("job completed",
		logging.String(logging.FieldEventType, "job_complete"),
		logging.Int("vector_bytes", len(job.Vector)),
		logging.Duration("job_duration", time.Since(jobStart)),
	)
	return nil
}

// commit applies mutate to a copy of job and persists it. The in-memory job
// only changes once the write succeeds, so it never runs ahead of the store.
func (o *Orchestrator) commit(ctx context.Context, job *jobs.Job, mutate func(*jobs.Job)) error {
	next := *job
	mutate(&next)
	if err := o.store.Put(ctx, &next); err != nil {
		return err
	}
	*job = next
	return nil
}

func (o *Orchestrator) stageLogger(ctx context.Context, stage string) (context.Context, *slog.Logger) {
	ctx = services.WithStage(ctx, stage)
	return ctx, logging.WithContext(ctx, o.logger)
}

func (o *Orchestrator) load(ctx context.Context, job *jobs.Job) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, logger := o.stageLogger(ctx, StageLoad)
	start := time.Now()

	img, format, err := raster.Decode(job.Source.Data)
	if err != nil {
		return nil, err
	}
	original := img.Bounds()
	img = raster.Fit(img, o.opts.MaxDimension)

	if err := o.commit(ctx, job, func(j *jobs.Job) { j.Advance(ProgressLoaded) }); err != nil {
		return nil, err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("format", format),
		logging.Int("width", img.Bounds().Dx()),
		logging.Int("height", img.Bounds().Dy()),
		logging.Bool("resized", img.Bounds().Size() != original.Size()),
		logging.Duration("stage_duration", time.Since(start)),
	)
	return img, nil
}

func (o *Orchestrator) removeBackground(ctx context.Context, job *jobs.Job, img *image.NRGBA) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, logger := o.stageLogger(ctx, StageRemoveBackground)
	if o.remover == nil {
		return nil, services.Wrap(services.ErrModelUnavailable, StageRemoveBackground, "select model", "no background model configured", nil)
	}
	start := time.Now()

	masked, err := background.Run(ctx, o.remover, img)
	if err != nil {
		return nil, err
	}
	encoded, err := raster.EncodePNG(masked)
	if err != nil {
		return nil, services.Wrap(services.ErrInference, StageRemoveBackground, "encode cleaned raster", "", err)
	}

	if err := o.commit(ctx, job, func(j *jobs.Job) {
		j.Cleaned = encoded
		j.Advance(ProgressBackgroundRemoved)
	}); err != nil {
		return nil, err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("model", o.remover.Name()),
		logging.Int("cleaned_bytes", len(encoded)),
		logging.Duration("stage_duration", time.Since(start)),
	)
	return masked, nil
}

func (o *Orchestrator) vectorize(ctx context.Context, job *jobs.Job, masked *image.NRGBA) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, logger := o.stageLogger(ctx, StageVectorize)
	start := time.Now()

	doc := vectorize.Vectorize(masked, o.opts.Vectorize)
	svg := doc.SVG()
	if err := o.commit(ctx, job, func(j *jobs.Job) { j.MarkCompleted(svg) }); err != nil {
		return err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int("paths", len(doc.Paths)),
		logging.Int("width", doc.Width),
		logging.Int("height", doc.Height),
		logging.Duration("stage_duration", time.Since(start)),
	)
	return nil
}
