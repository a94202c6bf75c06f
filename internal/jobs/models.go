package jobs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// UnknownFailureReason is recorded when a stage fails without an error message.
const UnknownFailureReason = "Unknown error"

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return normalized, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transitions can occur from status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SourceAsset is the raw submitted input. It never changes after creation.
type SourceAsset struct {
	Name string
	Size int64
	Data []byte
}

// NewSourceAsset builds an asset whose Size matches len(data).
func NewSourceAsset(name string, data []byte) SourceAsset {
	return SourceAsset{Name: name, Size: int64(len(data)), Data: data}
}

// Job is one unit of work tracking one submitted asset through the pipeline.
type Job struct {
	ID     string
	Seq    int64
	Source SourceAsset
	Status Status
	// Progress is a percentage in [0,100].
	Progress int
	// Cleaned is the background-removed raster encoded as PNG.
	Cleaned []byte
	// Vector is the SVG document produced from Cleaned.
	Vector        []byte
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a pending job for asset with a fresh identifier.
func New(asset SourceAsset) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		Source:    asset,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing moves the job into processing at the given progress.
func (j *Job) MarkProcessing(progress int) {
	j.Status = StatusProcessing
	j.FailureReason = ""
	j.Progress = progress
}

// Advance raises progress; it never lowers it.
func (j *Job) Advance(progress int) {
	if progress > j.Progress {
		j.Progress = progress
	}
}

// MarkCompleted stores the vector document and finishes the job.
func (j *Job) MarkCompleted(vector []byte) {
	j.Status = StatusCompleted
	j.Vector = vector
	j.Progress = 100
	j.FailureReason = ""
}

// MarkFailed marks the job failed with the given reason and resets progress.
// Derived vector output is dropped since it is only valid on completed jobs.
func (j *Job) MarkFailed(reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = UnknownFailureReason
	}
	j.Status = StatusFailed
	j.FailureReason = reason
	j.Progress = 0
	j.Vector = nil
}

// ResetToPending discards derived payloads so the job can be processed again.
func (j *Job) ResetToPending() {
	j.Status = StatusPending
	j.Progress = 0
	j.Cleaned = nil
	j.Vector = nil
	j.FailureReason = ""
}

// Stem returns the source name up to its first dot.
func (j Job) Stem() string {
	name := j.Source.Name
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// ShortID returns the first eight characters of the identifier.
func (j Job) ShortID() string {
	if len(j.ID) > 8 {
		return j.ID[:8]
	}
	return j.ID
}

// ErrInvalidJob reports a record that violates the job invariants.
var ErrInvalidJob = errors.New("invalid job")

// Validate checks the cross-field invariants every persisted job must hold.
func (j *Job) Validate() error {
	if j == nil {
		return fmt.Errorf("%w: job is nil", ErrInvalidJob)
	}
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidJob)
	}
	if _, ok := ParseStatus(string(j.Status)); !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidJob, j.Status)
	}
	if j.Progress < 0 || j.Progress > 100 {
		return fmt.Errorf("%w: progress %d out of range", ErrInvalidJob, j.Progress)
	}
	if (j.Progress == 100) != (j.Status == StatusCompleted) {
		return fmt.Errorf("%w: progress %d inconsistent with status %s", ErrInvalidJob, j.Progress, j.Status)
	}
	if (j.FailureReason != "") != (j.Status == StatusFailed) {
		return fmt.Errorf("%w: failure reason inconsistent with status %s", ErrInvalidJob, j.Status)
	}
	if j.Vector != nil && (j.Cleaned == nil || j.Status != StatusCompleted) {
		return fmt.Errorf("%w: vector document requires a cleaned raster and completed status", ErrInvalidJob)
	}
	return nil
}

// Stats counts jobs per status.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Add counts one job in the given status.
func (s *Stats) Add(status Status, n int) {
	s.Total += n
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusProcessing:
		s.Processing += n
	case StatusCompleted:
		s.Completed += n
	case StatusFailed:
		s.Failed += n
	}
}

// Summarize counts a snapshot without touching the store.
func Summarize(list []Job) Stats {
	var stats Stats
	for _, job := range list {
		stats.Add(job.Status, 1)
	}
	return stats
}

// SortBySeq orders jobs by creation sequence.
func SortBySeq(list []Job) {
	sort.SliceStable(list, func(i, k int) bool { return list[i].Seq < list[k].Seq })
}
