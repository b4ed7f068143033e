package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/wkarim/osintagent/internal/models"
)

// checkpointStore is the subset of the storage layer the driver needs
type checkpointStore interface {
	SaveRun(meta *models.RunMeta) error
	SaveCheckpoint(inv *models.Investigation) error
	LoadCheckpoint(target string) (*models.Investigation, error)
	DeleteCheckpoint(target string) error
}

// Driver steps an investigation through the phase pipeline until the
// report is produced or a phase fails fatally.
type Driver struct {
	Handlers *Handlers
	Store    checkpointStore

	// Checkpoint persists state after every phase and resumes from a
	// prior interrupted run of the same target.
	Checkpoint bool

	// Optional progress hooks, invoked around each phase
	OnPhaseStart func(phase models.Phase)
	OnPhaseDone  func(phase models.Phase, inv *models.Investigation)
}

// Run executes the full workflow for target and returns the final state.
// The run record is persisted up front as running, then flipped to complete
// or failed on exit.
func (d *Driver) Run(ctx context.Context, target string) (*models.Investigation, *models.RunMeta, error) {
	inv := models.NewInvestigation(target)

	if d.Checkpoint {
		saved, err := d.Store.LoadCheckpoint(target)
		if err != nil {
			fmt.Printf("[!] Warning: could not load checkpoint: %v\n", err)
		} else if saved != nil {
			inv = saved
			fmt.Printf("[*] Resuming from checkpoint (%d phases complete)\n", len(inv.CompletedPhases))
		}
	}

	run := models.NewRun(target)
	run.Status = models.StatusRunning
	if err := d.Store.SaveRun(run); err != nil {
		return nil, nil, fmt.Errorf("recording run: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			d.fail(run)
			return inv, run, err
		}

		decision := NextPhase(inv)
		inv.Apply(decision.Update)
		if decision.Goto == models.PhaseDone {
			break
		}

		phase := decision.Goto
		inv.CurrentPhase = phase
		run.PhasesRun = append(run.PhasesRun, phase)
		if d.OnPhaseStart != nil {
			d.OnPhaseStart(phase)
		}

		patch, err := d.Handlers.Run(ctx, phase, inv)
		if err != nil {
			d.fail(run)
			return inv, run, fmt.Errorf("phase %s: %w", phase, err)
		}
		inv.Apply(patch)

		if d.OnPhaseDone != nil {
			d.OnPhaseDone(phase, inv)
		}
		if d.Checkpoint {
			if err := d.Store.SaveCheckpoint(inv); err != nil {
				fmt.Printf("[!] Warning: could not save checkpoint: %v\n", err)
			}
		}
	}

	if d.Checkpoint {
		if err := d.Store.DeleteCheckpoint(target); err != nil {
			fmt.Printf("[!] Warning: could not delete checkpoint: %v\n", err)
		}
	}

	run.Status = models.StatusComplete
	now := time.Now()
	run.CompletedAt = &now
	if err := d.Store.SaveRun(run); err != nil {
		fmt.Printf("[!] Warning: could not update run record: %v\n", err)
	}
	return inv, run, nil
}

func (d *Driver) fail(run *models.RunMeta) {
	run.Status = models.StatusFailed
	now := time.Now()
	run.CompletedAt = &now
	if err := d.Store.SaveRun(run); err != nil {
		fmt.Printf("[!] Warning: could not update run record: %v\n", err)
	}
}
