package pipeline_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"silhouette/internal/background"
	"silhouette/internal/jobs"
	"silhouette/internal/pipeline"
	"silhouette/internal/progress"
	"silhouette/internal/services"
	"silhouette/internal/testsupport"
	"silhouette/internal/vectorize"
)

type identityRemover struct{}

func (identityRemover) Name() string { return "identity" }

func (identityRemover) Remove(_ context.Context, img *image.NRGBA) (background.MaskResult, error) {
	b := img.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	for i := range mask.Pix {
		mask.Pix[i] = 255
	}
	return background.MaskResult{Mask: mask}, nil
}

type failingRemover struct{ err error }

func (failingRemover) Name() string { return "failing" }

func (r failingRemover) Remove(context.Context, *image.NRGBA) (background.MaskResult, error) {
	return background.MaskResult{}, r.err
}

type cancellingRemover struct{ cancel context.CancelFunc }

func (cancellingRemover) Name() string { return "cancelling" }

func (r cancellingRemover) Remove(ctx context.Context, _ *image.NRGBA) (background.MaskResult, error) {
	r.cancel()
	return background.MaskResult{}, ctx.Err()
}

// hookedStore lets tests observe or reject individual writes.
type hookedStore struct {
	*jobs.Store
	onPut func(job *jobs.Job) error
}

func (s *hookedStore) Put(ctx context.Context, job *jobs.Job) error {
	if s.onPut != nil {
		if err := s.onPut(job); err != nil {
			return err
		}
	}
	return s.Store.Put(ctx, job)
}

func opaquePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	return testsupport.EncodePNG(t, testsupport.OpaqueImage(w, h, color.NRGBA{R: 30, G: 30, B: 30, A: 255}))
}

func newOrchestrator(t *testing.T, store pipeline.JobStore, remover background.Remover) *pipeline.Orchestrator {
	t.Helper()
	return pipeline.New(store, remover, pipeline.Options{MaxDimension: 1024, Vectorize: vectorize.DefaultOptions()}, nil)
}

func TestProcessBatchCompletesJob(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	orch := newOrchestrator(t, store, identityRemover{})

	final, err := orch.ProcessBatch(context.Background(), []pipeline.Asset{{Name: "square.png", Data: opaquePNG(t, 8, 8)}}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if len(final) != 1 {
		t.Fatalf("expected one job, got %d", len(final))
	}
	job := final[0]
	if job.Status != jobs.StatusCompleted || job.Progress != 100 {
		t.Fatalf("unexpected job state: %s %d (%s)", job.Status, job.Progress, job.FailureReason)
	}
	if job.Cleaned == nil || job.Vector == nil {
		t.Fatal("expected cleaned raster and vector document")
	}
	if !strings.Contains(string(job.Vector), `<svg width="8" height="8"`) {
		t.Fatalf("vector dimensions do not match raster: %s", job.Vector)
	}
	if !strings.Contains(string(job.Vector), "<path ") {
		t.Fatalf("expected at least one path: %s", job.Vector)
	}

	stored, err := store.Get(context.Background(), job.ID)
	if err != nil || stored == nil {
		t.Fatalf("expected stored job, got %v %v", stored, err)
	}
	if stored.Status != jobs.StatusCompleted || string(stored.Vector) != string(job.Vector) {
		t.Fatalf("store does not reflect final state: %s", stored.Status)
	}
}

func TestProcessBatchIsolatesFailuresAndEmitsSnapshots(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	orch := newOrchestrator(t, store, identityRemover{})

	var snapshots [][]jobs.Job
	sink := progress.SinkFunc(func(_ context.Context, snap []jobs.Job) {
		snapshots = append(snapshots, snap)
	})
	assets := []pipeline.Asset{
		{Name: "one.png", Data: opaquePNG(t, 8, 8)},
		{Name: "broken.png", Data: []byte("definitely not a png")},
		{Name: "three.png", Data: opaquePNG(t, 12, 12)},
	}
	final, err := orch.ProcessBatch(context.Background(), assets, sink)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if len(final) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(final))
	}
	wantStatus := []jobs.Status{jobs.StatusCompleted, jobs.StatusFailed, jobs.StatusCompleted}
	for i, job := range final {
		if job.Source.Name != assets[i].Name {
			t.Fatalf("snapshot out of submission order at %d: %s", i, job.Source.Name)
		}
		if job.Status != wantStatus[i] {
			t.Fatalf("job %d: expected %s, got %s", i, wantStatus[i], job.Status)
		}
	}
	broken := final[1]
	if broken.Progress != 0 || !strings.Contains(broken.FailureReason, "decode error") {
		t.Fatalf("unexpected failure record: %d %q", broken.Progress, broken.FailureReason)
	}

	if len(snapshots) != 4 {
		t.Fatalf("expected initial snapshot plus one per job, got %d", len(snapshots))
	}
	for _, job := range snapshots[0] {
		if job.Status != jobs.StatusPending {
			t.Fatalf("initial snapshot should be pending, got %s", job.Status)
		}
	}
	for i, snap := range snapshots {
		if len(snap) != 3 {
			t.Fatalf("snapshot %d has %d jobs", i, len(snap))
		}
	}
	if snapshots[1][0].Status != jobs.StatusCompleted || snapshots[1][1].Status != jobs.StatusPending {
		t.Fatalf("second snapshot should follow the first terminal transition")
	}
}

func TestProgressCheckpointsPersistInOrder(t *testing.T) {
	base := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	var seen []int
	store := &hookedStore{Store: base, onPut: func(job *jobs.Job) error {
		seen = append(seen, job.Progress)
		return nil
	}}
	orch := newOrchestrator(t, store, identityRemover{})

	if _, err := orch.ProcessBatch(context.Background(), []pipeline.Asset{{Name: "a.png", Data: opaquePNG(t, 4, 4)}}, nil); err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	want := []int{0, 10, 30, 70, 100}
	if len(seen) != len(want) {
		t.Fatalf("expected writes %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected writes %v, got %v", want, seen)
		}
	}
}

func TestModelFailureMarksJobFailed(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	modelErr := services.Wrap(services.ErrModelUnavailable, "remove_background", "segment", "endpoint offline", nil)
	orch := newOrchestrator(t, store, failingRemover{err: modelErr})

	final, err := orch.ProcessBatch(context.Background(), []pipeline.Asset{{Name: "a.png", Data: opaquePNG(t, 4, 4)}}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	job := final[0]
	if job.Status != jobs.StatusFailed || job.Progress != 0 {
		t.Fatalf("unexpected state: %s %d", job.Status, job.Progress)
	}
	if !strings.Contains(job.FailureReason, "model unavailable") {
		t.Fatalf("unexpected reason %q", job.FailureReason)
	}
	if job.Cleaned != nil || job.Vector != nil {
		t.Fatal("failed job should carry no derived payloads")
	}

	stored, err := store.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status != jobs.StatusFailed || stored.FailureReason != job.FailureReason {
		t.Fatalf("failure not persisted: %s %q", stored.Status, stored.FailureReason)
	}
}

func TestStorageFailureFailsOnlyThatJob(t *testing.T) {
	base := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	store := &hookedStore{Store: base, onPut: func(job *jobs.Job) error {
		if job.Source.Name == "a.png" && job.Progress == pipeline.ProgressBackgroundRemoved {
			return services.Wrap(services.ErrStorageUnavailable, "jobs", "put", "disk full", nil)
		}
		return nil
	}}
	orch := newOrchestrator(t, store, identityRemover{})

	final, err := orch.ProcessBatch(context.Background(), []pipeline.Asset{
		{Name: "a.png", Data: opaquePNG(t, 4, 4)},
		{Name: "b.png", Data: opaquePNG(t, 4, 4)},
	}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if final[0].Status != jobs.StatusFailed || !strings.Contains(final[0].FailureReason, "storage unavailable") {
		t.Fatalf("expected storage failure on first job, got %s %q", final[0].Status, final[0].FailureReason)
	}
	if final[0].Cleaned != nil {
		t.Fatal("rejected write must not leak into the in-memory job")
	}
	if final[1].Status != jobs.StatusCompleted {
		t.Fatalf("expected second job to complete, got %s", final[1].Status)
	}

	stored, err := base.Get(context.Background(), final[0].ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status != jobs.StatusFailed {
		t.Fatalf("expected failure to be persisted, got %s", stored.Status)
	}
}

func TestCancellationLeavesJobsResumable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := newOrchestrator(t, store, cancellingRemover{cancel: cancel})
	snap, err := orch.ProcessBatch(ctx, []pipeline.Asset{
		{Name: "first.png", Data: opaquePNG(t, 4, 4)},
		{Name: "second.png", Data: opaquePNG(t, 4, 4)},
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected snapshot of both jobs, got %d", len(snap))
	}
	if snap[0].Status != jobs.StatusProcessing || snap[0].Progress != pipeline.ProgressLoaded {
		t.Fatalf("expected first job at its last checkpoint, got %s %d", snap[0].Status, snap[0].Progress)
	}
	if snap[1].Status != jobs.StatusPending {
		t.Fatalf("expected second job untouched, got %s", snap[1].Status)
	}
	stored, err := store.Get(context.Background(), snap[0].ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status != jobs.StatusProcessing || stored.Progress != pipeline.ProgressLoaded {
		t.Fatalf("durable state diverged from snapshot: %s %d", stored.Status, stored.Progress)
	}

	resumed, err := newOrchestrator(t, store, identityRemover{}).Resume(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if len(resumed) != 2 {
		t.Fatalf("expected both jobs to resume, got %d", len(resumed))
	}
	for _, job := range resumed {
		if job.Status != jobs.StatusCompleted {
			t.Fatalf("expected resumed job to complete, got %s (%s)", job.Status, job.FailureReason)
		}
	}
	if resumed[0].ID != snap[0].ID {
		t.Fatal("resume should follow creation order")
	}
}

func TestProcessBatchResizesLargeImages(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	orch := pipeline.New(store, identityRemover{}, pipeline.Options{MaxDimension: 10, Vectorize: vectorize.DefaultOptions()}, nil)

	final, err := orch.ProcessBatch(context.Background(), []pipeline.Asset{{Name: "wide.png", Data: opaquePNG(t, 40, 20)}}, nil)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	if !strings.Contains(string(final[0].Vector), `<svg width="10" height="5"`) {
		t.Fatalf("expected vector sized to the resized raster: %s", final[0].Vector)
	}
}

func TestEmptyBatchAndSnapshotHelpers(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	orch := newOrchestrator(t, store, identityRemover{})
	ctx := context.Background()

	var emitted int
	final, err := orch.ProcessBatch(ctx, nil, progress.SinkFunc(func(context.Context, []jobs.Job) { emitted++ }))
	if err != nil || len(final) != 0 {
		t.Fatalf("expected empty result, got %v %v", final, err)
	}
	if emitted != 1 {
		t.Fatalf("expected only the initial snapshot, got %d", emitted)
	}

	if _, err := orch.ProcessBatch(ctx, []pipeline.Asset{
		{Name: "a.png", Data: opaquePNG(t, 4, 4)},
		{Name: "b.png", Data: opaquePNG(t, 4, 4)},
	}, nil); err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}
	loaded, err := orch.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Source.Name != "a.png" || loaded[1].Source.Name != "b.png" {
		t.Fatalf("unexpected snapshot order: %+v", loaded)
	}

	if err := orch.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	loaded, err = orch.LoadSnapshot(ctx)
	if err != nil || len(loaded) != 0 {
		t.Fatalf("expected empty store after clear, got %d %v", len(loaded), err)
	}
}
