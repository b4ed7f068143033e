package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wkarim/osintagent/internal/models"
)

func TestNextPhaseOrder(t *testing.T) {
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"www.example.com"}

	tests := []struct {
		completed []models.Phase
		want      models.Phase
	}{
		{nil, models.PhaseRecon},
		{[]models.Phase{models.PhaseRecon}, models.PhaseShodan},
		{[]models.Phase{models.PhaseRecon, models.PhaseShodan}, models.PhaseFingerprint},
		{[]models.Phase{models.PhaseRecon, models.PhaseShodan, models.PhaseFingerprint}, models.PhaseReport},
		{[]models.Phase{models.PhaseRecon, models.PhaseShodan, models.PhaseFingerprint, models.PhaseReport}, models.PhaseDone},
	}

	for _, tt := range tests {
		inv.CompletedPhases = tt.completed
		got := NextPhase(inv)
		assert.Equal(t, tt.want, got.Goto)
		assert.Empty(t, got.Update.CompletedPhases)
	}
}

func TestNextPhaseSkipsFingerprintWithoutSubdomains(t *testing.T) {
	inv := models.NewInvestigation("example.com")
	inv.CompletedPhases = []models.Phase{models.PhaseRecon, models.PhaseShodan}

	got := NextPhase(inv)

	assert.Equal(t, models.PhaseReport, got.Goto)
	assert.Equal(t, []models.Phase{models.PhaseFingerprint}, got.Update.CompletedPhases)
}

func TestNextPhaseIgnoresCompletionOrder(t *testing.T) {
	// Completion is a set: a checkpoint restored with phases recorded in
	// an unusual order still resolves to the earliest unfinished phase.
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"www.example.com"}
	inv.CompletedPhases = []models.Phase{models.PhaseShodan, models.PhaseRecon}

	got := NextPhase(inv)

	assert.Equal(t, models.PhaseFingerprint, got.Goto)
}
