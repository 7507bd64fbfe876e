package main

import (
	"time"

	"github.com/jward/libreveal"
	"github.com/jward/libreveal/internal/store"
)

// CLIResult is the JSON envelope for the history and expand commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIStatus is the outcome of compile and watch. Exactly one of Result and
// Error is set.
type CLIStatus struct {
	Result string  `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
	Hint   string  `json:"hint,omitempty"`
	Run    *CLIRun `json:"run,omitempty"`
}

// CLIRun is a JSON-friendly compilation run.
type CLIRun struct {
	ID          int64             `json:"id,omitempty"`
	Status      string            `json:"status"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	DurationMS  int64             `json:"duration_ms"`
	Libraries   int               `json:"libraries"`
	Expressions int               `json:"expressions"`
	Skipped     int               `json:"skipped"`
	Report      *libreveal.Report `json:"report,omitempty"`
	Digest      string            `json:"digest,omitempty"`
	Script      string            `json:"script,omitempty"`
	Minified    string            `json:"minified,omitempty"`
	Warnings    []string          `json:"warnings,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// CLIExpansion is one atomic expression and its guard.
type CLIExpansion struct {
	Expression string `json:"expression"`
	Guard      string `json:"guard"`
}

// Status messages printed for a run, matching the compiler's historical
// output.
const (
	msgSuccess  = "Success"
	msgNoUpdate = "No update, recompilation not needed"
)

func toCLIRun(r *store.Run) CLIRun {
	started := r.StartedAt
	return CLIRun{
		ID:          r.ID,
		Status:      r.Status,
		StartedAt:   &started,
		DurationMS:  r.Duration().Milliseconds(),
		Libraries:   r.Libraries,
		Expressions: r.Expressions,
		Skipped:     r.Skipped,
		Digest:      r.Digest,
		Warnings:    r.Warnings,
		Error:       r.Error,
	}
}

func resultToCLIRun(res *libreveal.Result) *CLIRun {
	if res == nil {
		return nil
	}
	report := res.Report
	return &CLIRun{
		ID:          res.RunID,
		Status:      string(res.Status),
		DurationMS:  res.Duration.Milliseconds(),
		Libraries:   res.Libraries,
		Expressions: res.Expressions,
		Skipped:     report.Skipped(),
		Report:      &report,
		Digest:      res.Digest,
		Script:      res.Script,
		Minified:    res.Minified,
		Warnings:    res.Warnings,
		Error:       res.Error,
	}
}

// newStatus builds the status printed after a run.
func newStatus(res *libreveal.Result, err error) CLIStatus {
	status := CLIStatus{Run: resultToCLIRun(res)}
	switch {
	case err != nil:
		status.Error = err.Error()
		status.Hint = flattenHints(err)
	case res != nil && res.Status == libreveal.StatusNoUpdate:
		status.Result = msgNoUpdate
	default:
		status.Result = msgSuccess
	}
	return status
}
