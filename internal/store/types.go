package store

import "time"

// Run statuses.
const (
	StatusSuccess  = "success"
	StatusNoUpdate = "no-update"
	StatusError    = "error"
)

// Run is one recorded compilation attempt.
type Run struct {
	ID          int64
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      string
	Libraries   int
	Expressions int
	Skipped     int
	Digest      string
	Warnings    []string
	Error       string
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
