package model

import "time"

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one pipeline execution recorded in the run-history store.
type Run struct {
	ID        string     `json:"id"`
	Plan      string     `json:"plan"`
	OutputDir string     `json:"output_dir"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult summarizes a completed run.
type RunResult struct {
	RawCount        int     `json:"raw_count"`
	DedupedCount    int     `json:"deduped_count"`
	ClassifiedCount int     `json:"classified_count"`
	FinalCount      int     `json:"final_count"`
	SearchCalls     int     `json:"search_calls"`
	OracleCalls     int     `json:"oracle_calls"`
	DurationSecs    float64 `json:"duration_secs"`
	Error           string  `json:"error,omitempty"`
}
