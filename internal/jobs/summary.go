package jobs

import "time"

// Summary is the payload-free view of a job used for progress events and the API.
type Summary struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"seq"`
	Name          string    `json:"name"`
	Size          int64     `json:"size"`
	Status        Status    `json:"status"`
	Progress      int       `json:"progress"`
	FailureReason string    `json:"failure_reason,omitempty"`
	HasCleaned    bool      `json:"has_cleaned"`
	HasVector     bool      `json:"has_vector"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary strips payload bytes from the job.
func (j Job) Summary() Summary {
	return Summary{
		ID:            j.ID,
		Seq:           j.Seq,
		Name:          j.Source.Name,
		Size:          j.Source.Size,
		Status:        j.Status,
		Progress:      j.Progress,
		FailureReason: j.FailureReason,
		HasCleaned:    j.Cleaned != nil,
		HasVector:     j.Vector != nil,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

// Summaries converts a snapshot, preserving order.
func Summaries(list []Job) []Summary {
	out := make([]Summary, 0, len(list))
	for _, job := range list {
		out = append(out, job.Summary())
	}
	return out
}
