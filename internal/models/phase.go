package models

// Phase identifies one stage of the fixed investigation pipeline
type Phase string

const (
	PhaseRecon       Phase = "recon"
	PhaseShodan      Phase = "shodan"
	PhaseFingerprint Phase = "fingerprint"
	PhaseReport      Phase = "report"
	PhaseDone        Phase = "done"
)

// RunStatus represents the current state of an investigation run
type RunStatus string

const (
	StatusPending  RunStatus = "pending"
	StatusRunning  RunStatus = "running"
	StatusComplete RunStatus = "complete"
	StatusFailed   RunStatus = "failed"
)
