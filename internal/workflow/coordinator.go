package workflow

import "github.com/wkarim/osintagent/internal/models"

// Decision is the coordinator's verdict for one step of the workflow
type Decision struct {
	Goto   models.Phase
	Update models.Patch
}

// NextPhase inspects the investigation and decides which phase runs next.
// It is a pure function of the state: the fixed order is recon, shodan,
// fingerprint, report, except that fingerprint is skipped (and marked
// complete) when subdomain enumeration produced nothing to fingerprint.
func NextPhase(inv *models.Investigation) Decision {
	switch {
	case !inv.HasCompleted(models.PhaseRecon):
		return Decision{Goto: models.PhaseRecon}
	case !inv.HasCompleted(models.PhaseShodan):
		return Decision{Goto: models.PhaseShodan}
	case !inv.HasCompleted(models.PhaseFingerprint):
		if len(inv.Subdomains) == 0 {
			return Decision{
				Goto:   models.PhaseReport,
				Update: models.Patch{CompletedPhases: []models.Phase{models.PhaseFingerprint}},
			}
		}
		return Decision{Goto: models.PhaseFingerprint}
	case !inv.HasCompleted(models.PhaseReport):
		return Decision{Goto: models.PhaseReport}
	default:
		return Decision{Goto: models.PhaseDone}
	}
}
