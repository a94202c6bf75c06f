package pipeline

import (
	"context"
	"fmt"
	"strings"

	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/services"
)

// stageError decides whether err interrupts the batch or only fails the job.
func (o *Orchestrator) stageError(ctx context.Context, stage string, job *jobs.Job, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		logging.WithContext(services.WithStage(ctx, stage), o.logger).Debug(
			"stage interrupted by cancellation",
			logging.String(logging.FieldEventType, "stage_interrupted"),
			logging.Int("progress", job.Progress),
		)
		return ctxErr
	}
	o.handleStageFailure(ctx, stage, job, err)
	return nil
}

// handleStageFailure marks job failed and attempts to persist that state once.
// The job stays failed in memory even when the write is rejected.
func (o *Orchestrator) handleStageFailure(ctx context.Context, stage string, job *jobs.Job, stageErr error) {
	ctx = services.WithStage(ctx, stage)
	logger := logging.WithContext(ctx, o.logger)

	message := classifyStageFailure(stage, stageErr)
	job.MarkFailed(message)

	details := services.Details(stageErr)
	attrs := []logging.Attr{
		logging.String("resolved_status", string(jobs.StatusFailed)),
		logging.String("error_message", message),
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String(logging.FieldErrorOperation, details.Operation),
	}
	if hint := failureHint(stageErr); hint != "" {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
	}
	if details.Cause != nil {
		attrs = append(attrs, logging.Error(details.Cause))
	} else {
		attrs = append(attrs, logging.Error(stageErr))
	}
	attrs = append(attrs, logging.String(logging.FieldEventType, "stage_failure"))
	logger.Error("stage failed", logging.Args(attrs...)...)

	if err := o.store.Put(ctx, job); err != nil {
		logger.Error("failed to persist job failure",
			logging.String(logging.FieldEventType, "failure_persist_failed"),
			logging.Error(err),
		)
	}
}

func classifyStageFailure(stage string, stageErr error) string {
	if stageErr == nil {
		return fmt.Sprintf("%s failed without error detail", stage)
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stage)
	}
	return message
}

func failureHint(err error) string {
	switch services.Kind(err) {
	case services.ErrStorageUnavailable:
		return "check free space and permissions in the state directory"
	case services.ErrDecode:
		return "the file is not a supported raster image"
	case services.ErrModelUnavailable:
		return "run `silhouette check` to verify the background model endpoint"
	case services.ErrUnsupportedShape:
		return "the background model returned a mask of the wrong size"
	default:
		return ""
	}
}
