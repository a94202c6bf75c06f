package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"silhouette/internal/background"
	"silhouette/internal/config"
	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/vectorize"
)

// Fixed progress checkpoints.
const (
	ProgressStarted           = 10
	ProgressLoaded            = 30
	ProgressBackgroundRemoved = 70
	ProgressCompleted         = 100
)

// Stage names used in logs and failure reasons.
const (
	StageSubmit           = "submit"
	StageStart            = "start"
	StageLoad             = "load"
	StageRemoveBackground = "remove_background"
	StageVectorize        = "vectorize"
)

// JobStore is the persistence the orchestrator depends on.
type JobStore interface {
	Put(ctx context.Context, job *jobs.Job) error
	GetAll(ctx context.Context) ([]jobs.Job, error)
	ListByStatus(ctx context.Context, status jobs.Status) ([]jobs.Job, error)
	Clear(ctx context.Context) (int64, error)
	ResetInterrupted(ctx context.Context) (int64, error)
}

// Asset is one raw input handed to ProcessBatch.
type Asset struct {
	Name string
	Data []byte
}

// Options tunes the processing stages.
type Options struct {
	// MaxDimension bounds the longest side of the raster sent to the model.
	MaxDimension int
	Vectorize    vectorize.Options
}

// OptionsFromConfig maps configuration onto stage options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Vectorize: vectorize.DefaultOptions()}
	}
	v := cfg.Vectorize
	return Options{
		MaxDimension: cfg.Background.MaxDimension,
		Vectorize: vectorize.Options{
			AlphaThreshold: uint8(v.AlphaThreshold),
			SeedStride:     v.SeedStride,
			MaxRegionSize:  v.MaxRegionSize,
			MinRegionSize:  v.MinRegionSize,
			Fill:           v.Fill,
		},
	}
}

// Orchestrator sequences jobs through the processing stages.
type Orchestrator struct {
	store   JobStore
	remover background.Remover
	opts    Options
	logger  *slog.Logger

	// mu serializes batches so only one job is ever in flight.
	mu sync.Mutex
}

// New constructs an orchestrator.
func New(store JobStore, remover background.Remover, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:   store,
		remover: remover,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// LoadSnapshot returns every stored job ordered by creation.
func (o *Orchestrator) LoadSnapshot(ctx context.Context) ([]jobs.Job, error) {
	list, err := o.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	jobs.SortBySeq(list)
	return list, nil
}

// ClearAll deletes every stored job.
func (o *Orchestrator) ClearAll(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed, err := o.store.Clear(ctx)
	if err != nil {
		return err
	}
	o.logger.Info("job store cleared",
		logging.String(logging.FieldEventType, "store_cleared"),
		logging.Int64("removed", removed),
	)
	return nil
}
