package workflow

import (
	"context"
	"fmt"

	"github.com/wkarim/osintagent/internal/config"
	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/report"
)

// Handlers executes phases against the bound capabilities. Every handler
// except report absorbs its own failures: a collaborator error becomes an
// entry in the errors log and the phase is still marked complete, so a
// degraded run continues and the final report notes what was missed.
type Handlers struct {
	Caps   Capabilities
	Limits config.LimitsConfig
}

// Run dispatches to the handler for the given phase
func (h *Handlers) Run(ctx context.Context, phase models.Phase, inv *models.Investigation) (models.Patch, error) {
	switch phase {
	case models.PhaseRecon:
		return h.recon(ctx, inv), nil
	case models.PhaseShodan:
		return h.shodan(ctx, inv), nil
	case models.PhaseFingerprint:
		return h.fingerprint(ctx, inv), nil
	case models.PhaseReport:
		return h.report(ctx, inv)
	default:
		return models.Patch{}, fmt.Errorf("no handler for phase %q", phase)
	}
}

func (h *Handlers) recon(ctx context.Context, inv *models.Investigation) models.Patch {
	patch := models.Patch{
		CurrentPhase:    models.PhaseShodan,
		CompletedPhases: []models.Phase{models.PhaseRecon},
	}

	out, err := h.Caps.Recon.Invoke(ctx, map[string]any{"domain": inv.Target})
	if err != nil {
		patch.Errors = append(patch.Errors, fmt.Sprintf("recon error: %v", err))
		return patch
	}
	subs, _ := out.([]string)
	patch.Subdomains = subs
	fmt.Printf("[+] Found %d subdomains\n", len(subs))

	// Liveness probe over a bounded sample. Optional and best-effort:
	// probe failures are logged but do not fail the phase.
	if h.Caps.Probe != nil && len(subs) > 0 {
		sample := subs
		if len(sample) > h.Limits.ProbeSample {
			sample = sample[:h.Limits.ProbeSample]
		}
		out, err := h.Caps.Probe.Invoke(ctx, map[string]any{"targets": sample})
		if err != nil {
			patch.Errors = append(patch.Errors, fmt.Sprintf("probe error: %v", err))
			return patch
		}
		live, _ := out.([]models.ProbeResult)
		patch.LiveHosts = live
		fmt.Printf("[+] %d of %d probed hosts are live\n", len(live), len(sample))
	}
	return patch
}

func (h *Handlers) shodan(ctx context.Context, inv *models.Investigation) models.Patch {
	patch := models.Patch{
		CurrentPhase:    models.PhaseFingerprint,
		CompletedPhases: []models.Phase{models.PhaseShodan},
	}

	out, err := h.Caps.HostIntel.Invoke(ctx, map[string]any{
		"domain":     inv.Target,
		"subdomains": inv.SampleSubdomains(h.Limits.ShodanSample),
	})
	if err != nil {
		patch.Errors = append(patch.Errors, fmt.Sprintf("shodan error: %v", err))
		return patch
	}
	if intel, ok := out.(*models.HostIntel); ok && intel != nil {
		patch.ShodanHosts = intel.Hosts
		patch.ShodanDetails = intel.Details
		fmt.Printf("[+] Shodan returned %d hosts (%d detailed lookups)\n",
			len(intel.Hosts), len(intel.Details))
	}
	return patch
}

func (h *Handlers) fingerprint(ctx context.Context, inv *models.Investigation) models.Patch {
	patch := models.Patch{
		CurrentPhase:    models.PhaseReport,
		CompletedPhases: []models.Phase{models.PhaseFingerprint},
	}

	targets := inv.SampleSubdomains(h.Limits.FingerprintTargets)
	urls := make([]string, 0, len(targets))
	for _, t := range targets {
		urls = append(urls, "https://"+t)
	}

	out, err := h.Caps.Fingerprint.Invoke(ctx, map[string]any{"urls": urls})
	if err != nil {
		patch.Errors = append(patch.Errors, fmt.Sprintf("fingerprint error: %v", err))
		return patch
	}
	prints, _ := out.([]models.Fingerprint)
	patch.Technologies = prints
	for _, fp := range prints {
		if fp.Error != "" {
			patch.Errors = append(patch.Errors, fmt.Sprintf("fingerprint %s: %s", fp.URL, fp.Error))
		}
	}
	fmt.Printf("[+] Fingerprinted %d targets\n", len(prints))
	return patch
}

// report is the one phase whose failure is fatal: without a report the run
// has no deliverable, so the error propagates to the driver.
func (h *Handlers) report(ctx context.Context, inv *models.Investigation) (models.Patch, error) {
	summary := report.BuildSummary(inv)
	out, err := h.Caps.Report.Invoke(ctx, map[string]any{"summary": summary})
	if err != nil {
		return models.Patch{}, fmt.Errorf("report generation failed: %w", err)
	}
	text, _ := out.(string)
	if text == "" {
		return models.Patch{}, fmt.Errorf("report generation returned empty output")
	}
	return models.Patch{
		Report:          text,
		CurrentPhase:    models.PhaseDone,
		CompletedPhases: []models.Phase{models.PhaseReport},
	}, nil
}
