package models

import (
	"time"

	"github.com/google/uuid"
)

// RunMeta contains metadata about an investigation run
type RunMeta struct {
	ID          string     `json:"id"`
	Target      string     `json:"target"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      RunStatus  `json:"status"`
	PhasesRun   []Phase    `json:"phases_run,omitempty"`
	ReportPath  string     `json:"report_path,omitempty"`
}

// NewRun creates a new run record with initialized metadata
func NewRun(target string) *RunMeta {
	return &RunMeta{
		ID:        uuid.New().String(),
		Target:    target,
		StartedAt: time.Now(),
		Status:    StatusPending,
		PhasesRun: []Phase{},
	}
}
