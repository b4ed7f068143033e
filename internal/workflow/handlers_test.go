package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkarim/osintagent/internal/config"
	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/report"
)

// fakeCap records its invocations and returns a scripted result
type fakeCap struct {
	name   string
	out    any
	err    error
	calls  int
	gotArg map[string]any
}

func (f *fakeCap) Name() string { return f.name }

func (f *fakeCap) Invoke(_ context.Context, args map[string]any) (any, error) {
	f.calls++
	f.gotArg = args
	return f.out, f.err
}

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{
		ProbeSample:        25,
		ShodanSample:       20,
		FingerprintTargets: 10,
		FingerprintWorkers: 3,
	}
}

func TestReconHandlerCollectsSubdomainsAndProbes(t *testing.T) {
	recon := &fakeCap{name: "enumerate_subdomains", out: []string{"a.example.com", "b.example.com"}}
	probe := &fakeCap{name: "probe_live_hosts", out: []models.ProbeResult{
		{URL: "https://a.example.com", StatusCode: 200},
	}}
	h := &Handlers{Caps: Capabilities{Recon: recon, Probe: probe}, Limits: testLimits()}
	inv := models.NewInvestigation("example.com")

	patch, err := h.Run(context.Background(), models.PhaseRecon, inv)
	require.NoError(t, err)

	assert.Equal(t, "example.com", recon.gotArg["domain"])
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, patch.Subdomains)
	assert.Len(t, patch.LiveHosts, 1)
	assert.Equal(t, models.PhaseShodan, patch.CurrentPhase)
	assert.Equal(t, []models.Phase{models.PhaseRecon}, patch.CompletedPhases)
	assert.Empty(t, patch.Errors)
}

func TestReconHandlerAbsorbsFailure(t *testing.T) {
	recon := &fakeCap{name: "enumerate_subdomains", err: errors.New("container exited 1")}
	probe := &fakeCap{name: "probe_live_hosts"}
	h := &Handlers{Caps: Capabilities{Recon: recon, Probe: probe}, Limits: testLimits()}

	patch, err := h.Run(context.Background(), models.PhaseRecon, models.NewInvestigation("example.com"))
	require.NoError(t, err)

	assert.Equal(t, []models.Phase{models.PhaseRecon}, patch.CompletedPhases)
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "recon error:")
	assert.Zero(t, probe.calls, "probe should not run when enumeration failed")
}

func TestReconHandlerProbesBoundedSample(t *testing.T) {
	subs := make([]string, 40)
	for i := range subs {
		subs[i] = "host.example.com"
	}
	recon := &fakeCap{name: "enumerate_subdomains", out: subs}
	probe := &fakeCap{name: "probe_live_hosts", out: []models.ProbeResult{}}
	limits := testLimits()
	limits.ProbeSample = 5
	h := &Handlers{Caps: Capabilities{Recon: recon, Probe: probe}, Limits: limits}

	_, err := h.Run(context.Background(), models.PhaseRecon, models.NewInvestigation("example.com"))
	require.NoError(t, err)

	targets, ok := probe.gotArg["targets"].([]string)
	require.True(t, ok)
	assert.Len(t, targets, 5)
}

func TestShodanHandlerRecordsIntel(t *testing.T) {
	intel := &models.HostIntel{
		Hosts:   []models.HostSummary{{IP: "1.2.3.4", Port: 443}},
		Details: []models.HostDetail{{IP: "1.2.3.4", Org: "Example Org"}},
	}
	hostintel := &fakeCap{name: "host_intel_lookup", out: intel}
	h := &Handlers{Caps: Capabilities{HostIntel: hostintel}, Limits: testLimits()}
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"a.example.com"}

	patch, err := h.Run(context.Background(), models.PhaseShodan, inv)
	require.NoError(t, err)

	assert.Equal(t, "example.com", hostintel.gotArg["domain"])
	assert.Equal(t, []string{"a.example.com"}, hostintel.gotArg["subdomains"])
	assert.Len(t, patch.ShodanHosts, 1)
	assert.Len(t, patch.ShodanDetails, 1)
	assert.Equal(t, []models.Phase{models.PhaseShodan}, patch.CompletedPhases)
}

func TestShodanHandlerAbsorbsFailure(t *testing.T) {
	hostintel := &fakeCap{name: "host_intel_lookup", err: errors.New("401 Unauthorized")}
	h := &Handlers{Caps: Capabilities{HostIntel: hostintel}, Limits: testLimits()}

	patch, err := h.Run(context.Background(), models.PhaseShodan, models.NewInvestigation("example.com"))
	require.NoError(t, err)

	assert.Equal(t, []models.Phase{models.PhaseShodan}, patch.CompletedPhases)
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "shodan error:")
	assert.Empty(t, patch.ShodanHosts)
}

func TestFingerprintHandlerBuildsURLsAndRecordsPartialErrors(t *testing.T) {
	fp := &fakeCap{name: "fingerprint_targets", out: []models.Fingerprint{
		{URL: "https://a.example.com", Technologies: []models.Technology{{Name: "nginx"}}},
		{URL: "https://b.example.com", Error: "exit code 124"},
	}}
	h := &Handlers{Caps: Capabilities{Fingerprint: fp}, Limits: testLimits()}
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"a.example.com", "b.example.com"}

	patch, err := h.Run(context.Background(), models.PhaseFingerprint, inv)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, fp.gotArg["urls"])
	assert.Len(t, patch.Technologies, 2)
	require.Len(t, patch.Errors, 1)
	assert.Contains(t, patch.Errors[0], "https://b.example.com")
	assert.Equal(t, models.PhaseReport, patch.CurrentPhase)
}

func TestReportHandlerPassesSummaryAndFailsFatally(t *testing.T) {
	rep := &fakeCap{name: "generate_report", out: "# OSINT Reconnaissance Report"}
	h := &Handlers{Caps: Capabilities{Report: rep}, Limits: testLimits()}
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"a.example.com"}
	inv.Errors = []string{"shodan error: 401 Unauthorized"}

	patch, err := h.Run(context.Background(), models.PhaseReport, inv)
	require.NoError(t, err)

	summary, ok := rep.gotArg["summary"].(report.Summary)
	require.True(t, ok)
	assert.Equal(t, 1, summary.SubdomainCount)
	assert.Equal(t, inv.Errors, summary.Errors)
	assert.Equal(t, "# OSINT Reconnaissance Report", patch.Report)
	assert.Equal(t, []models.Phase{models.PhaseReport}, patch.CompletedPhases)

	rep.err = errors.New("llm unreachable")
	_, err = h.Run(context.Background(), models.PhaseReport, inv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report generation failed")
}

func TestReportHandlerRejectsEmptyOutput(t *testing.T) {
	rep := &fakeCap{name: "generate_report", out: ""}
	h := &Handlers{Caps: Capabilities{Report: rep}, Limits: testLimits()}

	_, err := h.Run(context.Background(), models.PhaseReport, models.NewInvestigation("example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")
}

func TestRunUnknownPhase(t *testing.T) {
	h := &Handlers{Limits: testLimits()}

	_, err := h.Run(context.Background(), models.PhaseDone, models.NewInvestigation("example.com"))
	require.Error(t, err)
}
