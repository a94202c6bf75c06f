package background

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"silhouette/internal/logging"
)

type fallbackRemover struct {
	primary   Remover
	secondary Remover
	logger    *slog.Logger
}

// WithFallback returns a Remover that tries secondary exactly once when
// primary fails or returns an unusable mask. Cancellation is never retried.
// A nil secondary returns primary unchanged.
func WithFallback(primary, secondary Remover, logger *slog.Logger) Remover {
	if secondary == nil {
		return primary
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &fallbackRemover{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallbackRemover) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *fallbackRemover) Remove(ctx context.Context, img *image.NRGBA) (MaskResult, error) {
	result, primaryErr := attempt(ctx, f.primary, img)
	if primaryErr == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return MaskResult{}, primaryErr
	}

	logging.WithContext(ctx, f.logger).Warn("primary background model failed; trying fallback",
		logging.String(logging.FieldEventType, "model_fallback"),
		logging.String("primary", f.primary.Name()),
		logging.String("secondary", f.secondary.Name()),
		logging.Error(primaryErr),
	)

	result, secondaryErr := attempt(ctx, f.secondary, img)
	if secondaryErr == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return MaskResult{}, secondaryErr
	}
	return MaskResult{}, fmt.Errorf("%w (fallback %s: %v)", primaryErr, f.secondary.Name(), secondaryErr)
}

func attempt(ctx context.Context, r Remover, img *image.NRGBA) (MaskResult, error) {
	result, err := r.Remove(ctx, img)
	if err != nil {
		return MaskResult{}, err
	}
	if err := result.Validate(img.Bounds()); err != nil {
		return MaskResult{}, err
	}
	return result, nil
}
